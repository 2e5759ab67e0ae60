// scheduler.go
//
// MindSync student productivity service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of mindsync.
// mindsync is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mindsync is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mindsync.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"log"
	"time"

	"github.com/localnerve/mindsync/internal/storage"
	"github.com/robfig/cron/v3"
)

// SessionPruner removes expired sessions
type SessionPruner interface {
	PruneExpired() (int64, error)
}

// Scheduler runs periodic maintenance jobs
type Scheduler struct {
	cron  *cron.Cron
	store storage.Storage
	loc   *time.Location
	now   func() time.Time
}

// NewScheduler creates a scheduler evaluating job times in loc
func NewScheduler(store storage.Storage, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(loc)),
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// Register adds the weekly rollover, streak reset and, when pruner is not
// nil, the hourly session prune.
func (s *Scheduler) Register(pruner SessionPruner) error {
	if _, err := s.cron.AddFunc("0 0 * * 1", s.ResetWeekly); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("5 0 * * *", s.ResetStreaks); err != nil {
		return err
	}
	if pruner != nil {
		if _, err := s.cron.AddFunc("@hourly", func() { s.PruneSessions(pruner) }); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ResetWeekly zeroes weekly study hours for every user
func (s *Scheduler) ResetWeekly() {
	n, err := s.store.UserStats().ResetWeekly(context.Background())
	if err != nil {
		log.Printf("Weekly reset failed: %v", err)
		return
	}
	log.Printf("Weekly reset: %d user stats updated", n)
}

// ResetStreaks zeroes streaks whose last study date is before yesterday
func (s *Scheduler) ResetStreaks() {
	n, err := s.store.UserStats().ResetStreaks(context.Background(), s.streakCutoff())
	if err != nil {
		log.Printf("Streak reset failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Streak reset: %d streaks broken", n)
	}
}

// streakCutoff is the start of yesterday in the scheduler's location, in UTC
func (s *Scheduler) streakCutoff() time.Time {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return today.AddDate(0, 0, -1).UTC()
}

func (s *Scheduler) PruneSessions(pruner SessionPruner) {
	n, err := pruner.PruneExpired()
	if err != nil {
		log.Printf("Session prune failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Pruned %d expired sessions", n)
	}
}
