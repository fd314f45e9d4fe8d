package service

import (
	"testing"

	"FixtureSync/internal/model"
)

func TestScheduler(t *testing.T) {
	svc, _ := newTestMatchService(t)
	if _, err := NewScheduler("not a cron", svc, quietLogger()); err == nil {
		t.Error("invalid cron expression accepted")
	}

	s, err := NewScheduler("@every 1h", svc, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Stop()
}

func TestSchedulerSweepNormalizes(t *testing.T) {
	svc, store := newTestMatchService(t)
	store.data = &model.MatchData{Matches: []model.Match{{Date: "2024-05-10", Competition: ""}}}
	store.dirty = true

	s, err := NewScheduler("@every 1h", svc, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	s.sweep()
	if store.data.Matches[0].ID == "" {
		t.Error("scheduled sweep did not normalize")
	}
}
