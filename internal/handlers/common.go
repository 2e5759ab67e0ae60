// common.go
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

package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/middleware"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/types"
)

// ownedModel is satisfied by pointers to models that belong to a user
type ownedModel[T any] interface {
	*T
	OwnerID() uint
}

// userID returns the id of the authenticated caller
func userID(c *fiber.Ctx) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// parseID reads a positive integer route parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 0)
	if err != nil || id == 0 {
		return 0, types.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// parseBody decodes the JSON request body into out
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return types.NewValidationError("Invalid request body: " + err.Error())
	}
	return nil
}

// loadOwned fetches the row named by the :id parameter. A missing row is
// NotFound and a row of another user is Forbidden, in that order.
func loadOwned[T any, P ownedModel[T]](c *fiber.Ctx, repo storage.Repository[T], entity string) (*T, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}

	row, err := repo.Get(c.UserContext(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NewNotFoundError(entity + " not found")
	}
	if err != nil {
		return nil, types.NewInternalError("Error fetching "+strings.ToLower(entity), err)
	}

	if P(row).OwnerID() != userID(c) {
		return nil, types.NewForbiddenError("Forbidden")
	}
	return row, nil
}

// checkCourse rejects a course reference the caller does not own
func checkCourse(c *fiber.Ctx, store storage.Storage, courseID *uint) error {
	if courseID == nil {
		return nil
	}
	course, err := store.Courses().Get(c.UserContext(), *courseID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.NewForbiddenError("Invalid course ID")
	}
	if err != nil {
		return types.NewInternalError("Error fetching course", err)
	}
	if course.UserID != userID(c) {
		return types.NewForbiddenError("Invalid course ID")
	}
	return nil
}

// checkTerm rejects a term reference the caller does not own
func checkTerm(c *fiber.Ctx, store storage.Storage, termID *uint) error {
	if termID == nil {
		return nil
	}
	term, err := store.Terms().Get(c.UserContext(), *termID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.NewForbiddenError("Invalid term ID")
	}
	if err != nil {
		return types.NewInternalError("Error fetching term", err)
	}
	if term.UserID != userID(c) {
		return types.NewForbiddenError("Invalid term ID")
	}
	return nil
}

// internal wraps a storage failure
func internal(message string, err error) error {
	return types.NewInternalError(message, err)
}

// parseDay resolves a date query value to a calendar day in loc. A bare
// date is taken as that day in loc; a timestamp is converted into loc.
func parseDay(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		return now.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	t, err := types.ParseFlexTime(value)
	if err != nil {
		return time.Time{}, types.NewValidationError("Invalid date")
	}
	return t.In(loc), nil
}

// dayBounds returns the first and last millisecond of day's calendar day in loc, in UTC
func dayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	day = day.In(loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return start.UTC(), end.UTC()
}
