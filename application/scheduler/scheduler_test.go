// application/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRefresher struct {
	calls int
	limit int
	err   error
}

func (f *fakeRefresher) RefreshTopPairs(_ context.Context, limit int) (int, error) {
	f.calls++
	f.limit = limit
	return limit, f.err
}

func TestRegisterInvalidSpec(t *testing.T) {
	s := New()
	err := s.Register(&Job{Name: "bad", Spec: "каждые 10 минут", Handler: func(context.Context) error { return nil }})
	if err == nil {
		t.Fatal("ожидалась ошибка расписания")
	}
	if len(s.Jobs()) != 0 {
		t.Error("задача с неверным расписанием зарегистрирована")
	}
}

func TestRegisterWithoutHandler(t *testing.T) {
	if err := New().Register(&Job{Name: "empty", Spec: "@every 1m"}); err == nil {
		t.Error("ожидалась ошибка без обработчика")
	}
}

func TestParserAcceptsOptionalSeconds(t *testing.T) {
	for _, spec := range []string{"0 */10 * * * *", "*/5 * * * *", "@every 10m", "@hourly"} {
		if _, err := Parser.Parse(spec); err != nil {
			t.Errorf("Parse(%q): %v", spec, err)
		}
	}
}

func TestJobsReportNextRun(t *testing.T) {
	s := New()
	job := NewUniverseWarmupJob("@every 1h", &fakeRefresher{}, 50)
	if err := s.Register(job); err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop(context.Background())

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0].Name != "universe_warmup" {
		t.Fatalf("jobs = %+v", jobs)
	}
	if jobs[0].NextRun.IsZero() || jobs[0].NextRun.Before(time.Now()) {
		t.Errorf("next run = %v", jobs[0].NextRun)
	}
}

func TestRunUpdatesStatus(t *testing.T) {
	refresher := &fakeRefresher{}
	s := New()
	job := NewUniverseWarmupJob("@every 1h", refresher, 50)
	if err := s.Register(job); err != nil {
		t.Fatal(err)
	}

	s.run(job)
	refresher.err = errors.New("bybit down")
	s.run(job)

	if refresher.calls != 2 || refresher.limit != 50 {
		t.Errorf("refresher = %+v", refresher)
	}
	st := s.Jobs()[0]
	if st.Runs != 2 || st.LastErr == nil || st.LastRun.IsZero() {
		t.Errorf("status = %+v", st)
	}
}

func TestCronRunsJob(t *testing.T) {
	done := make(chan struct{}, 1)
	s := New()
	err := s.Register(&Job{
		Name: "tick",
		Spec: "@every 1s",
		Handler: func(context.Context) error {
			select {
			case done <- struct{}{}:
			default:
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("задача не запустилась")
	}
}
