// course.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/localnerve/mindsync/internal/validation"
)

// CourseHandler handles course routes
type CourseHandler struct {
	Store storage.Storage
}

// List handles GET /api/courses
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {array} models.Course
// @Failure 401 {object} utils.MessageResponse
// @Router /courses [get]
func (h *CourseHandler) List(c *fiber.Ctx) error {
	courses, err := h.Store.Courses().List(c.UserContext(), userID(c))
	if err != nil {
		return internal("Error fetching courses", err)
	}
	return c.JSON(courses)
}

// Create handles POST /api/courses
// @Summary Create a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param body body models.CourseInput true "Course"
// @Success 201 {object} models.Course
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Router /courses [post]
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var in models.CourseInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	course := in.ToModel(userID(c))
	if err := validation.Struct(course); err != nil {
		return err
	}
	if err := checkTerm(c, h.Store, course.TermID); err != nil {
		return err
	}

	if err := h.Store.Courses().Create(c.UserContext(), &course); err != nil {
		return internal("Error creating course", err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// Get handles GET /api/courses/:id
// @Summary Get a course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	course, err := loadOwned[models.Course](c, h.Store.Courses(), "Course")
	if err != nil {
		return err
	}
	return c.JSON(course)
}

// Update handles PUT /api/courses/:id
// @Summary Update a course
// @Description Fields present in the body replace the stored values
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param body body models.CourseInput true "Changed fields"
// @Success 200 {object} models.Course
// @Failure 400 {object} utils.MessageResponse
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	course, err := loadOwned[models.Course](c, h.Store.Courses(), "Course")
	if err != nil {
		return err
	}

	var patch models.CoursePatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}
	patch.Apply(course)

	if err := validation.Struct(course); err != nil {
		return err
	}
	if patch.TermID.IsSpecified() {
		if err := checkTerm(c, h.Store, course.TermID); err != nil {
			return err
		}
	}

	if err := h.Store.Courses().Update(c.UserContext(), course); err != nil {
		return internal("Error updating course", err)
	}
	return c.JSON(course)
}

// Delete handles DELETE /api/courses/:id
// @Summary Delete a course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Failure 403 {object} utils.MessageResponse
// @Failure 404 {object} utils.MessageResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	course, err := loadOwned[models.Course](c, h.Store.Courses(), "Course")
	if err != nil {
		return err
	}
	if err := h.Store.Courses().Delete(c.UserContext(), course.ID); err != nil {
		return internal("Error deleting course", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
