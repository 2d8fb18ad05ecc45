package audit

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogrusLogger_WritesEvent(t *testing.T) {
	l, hook := test.NewNullLogger()
	a := NewLogrusLogger(l)
	ip, ua := "203.0.113.7", "curl/8"

	if err := a.LogLogin(context.Background(), "bruce@gotham.com", "password", "sid-1", &ip, &ua); err != nil {
		t.Fatalf("LogLogin: %v", err)
	}
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.InfoLevel {
		t.Fatalf("expected one info entry, got %+v", e)
	}
	if e.Data["email"] != "bruce@gotham.com" || e.Data["method"] != "password" || e.Data["ip"] != ip || e.Data["user_agent"] != ua {
		t.Fatalf("unexpected fields %v", e.Data)
	}
	if id, _ := e.Data["event_id"].(string); len(id) != 36 {
		t.Fatalf("expected uuid event id, got %v", e.Data["event_id"])
	}
	if _, ok := e.Data["session_id"]; ok {
		t.Fatalf("session id must not be logged")
	}
}

func TestLoginEventWorker_LogsJob(t *testing.T) {
	l, hook := test.NewNullLogger()
	w := &LoginEventWorker{log: l}
	job := &river.Job[LoginEventArgs]{JobRow: &rivertype.JobRow{ID: 7}, Args: LoginEventArgs{Event: newEvent("a@b.c", "google", nil, nil)}}

	if err := w.Work(context.Background(), job); err != nil {
		t.Fatalf("Work: %v", err)
	}
	if e := hook.LastEntry(); e == nil || e.Data["method"] != "google" || e.Data["job_id"] != int64(7) {
		t.Fatalf("unexpected entry %+v", e)
	}
	if (LoginEventArgs{}).Kind() != "login_event" {
		t.Fatalf("unexpected job kind")
	}
}

func TestLoginEventArgs_OmitSessionID(t *testing.T) {
	ip := "198.51.100.4"
	b, err := json.Marshal(LoginEventArgs{Event: newEvent("a@b.c", "password", &ip, nil)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(b), "session") {
		t.Fatalf("job args carry a session field: %s", b)
	}
	if !strings.Contains(string(b), `"email":"a@b.c"`) || !strings.Contains(string(b), `"ip":"198.51.100.4"`) {
		t.Fatalf("unexpected job args %s", b)
	}
}
