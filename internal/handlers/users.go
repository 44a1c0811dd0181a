// users.go
//
// A JSON API for sharing recipes, backed by a relational store.
// Copyright (c) 2026 RecipeDB contributors
//
// This file is part of recipedb.
// recipedb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// recipedb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with recipedb.
// If not, see <https://www.gnu.org/licenses/>.

package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localtable/recipedb/internal/models"
	"github.com/localtable/recipedb/internal/services"
	"github.com/localtable/recipedb/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles account routes
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

// currentUser returns the authenticated user the auth middleware stored.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// Signup handles POST /api/signup
// @Summary Create an account
// @Description Create a user account and return it with a fresh session token
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.SignupInput true "Account to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /signup [post]
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var input services.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "users.validation.input")
	}
	if msg := validateSignupInput(&input); msg != "" {
		return utils.ErrorResponse(c, msg, fiber.StatusBadRequest, "users.validation.input")
	}

	user, err := services.Signup(h.DB, &input, h.BcryptCost)
	if err != nil {
		return serviceError(c, err, "signup")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

// Signin handles POST /api/signin
// @Summary Sign in
// @Description Verify credentials and rotate the session token
// @Tags Users
// @Accept json
// @Produce json
// @Param body body object true "Username and password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /signin [post]
func (h *UserHandler) Signin(c *fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "users.validation.input")
	}
	if body.Username == "" || body.Password == "" {
		return utils.ErrorResponse(c, "'username' and 'password' are required.", fiber.StatusBadRequest, "users.validation.input")
	}

	user, err := services.Signin(h.DB, body.Username, body.Password)
	if err != nil {
		return serviceError(c, err, "signin")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// Signout handles POST /api/signout
// @Summary Sign out
// @Description Clear the session token for the authenticated user
// @Tags Users
// @Accept json
// @Produce json
// @Param Token header string true "Session token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /signout [post]
func (h *UserHandler) Signout(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return utils.ErrorResponse(c, "Access denied.", fiber.StatusUnauthorized, "users.authorization")
	}

	if err := services.Signout(h.DB, user.ID); err != nil {
		return serviceError(c, err, "signout")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User successfully signed out.",
	})
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update a user
// @Description Update profile fields for the authenticated user's own account
// @Tags Users
// @Accept json
// @Produce json
// @Param Token header string true "Session token"
// @Param id path int true "User ID"
// @Param body body services.UserUpdate true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return utils.ErrorResponse(c, "Access denied.", fiber.StatusUnauthorized, "users.authorization")
	}

	var update services.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "users.validation.input")
	}

	user, err := services.UpdateUser(h.DB, userID, &update)
	if err != nil {
		return serviceError(c, err, "updateUser")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete a user
// @Description Delete the authenticated user's own account
// @Tags Users
// @Accept json
// @Produce json
// @Param Token header string true "Session token"
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return utils.ErrorResponse(c, "Access denied.", fiber.StatusUnauthorized, "users.authorization")
	}

	affected, err := services.DeleteUser(h.DB, userID)
	if err != nil {
		return serviceError(c, err, "deleteUser")
	}
	if affected == 0 {
		return utils.NotFoundResponse(c, "No user found.")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User successfully deleted.",
	})
}

// authorizedUserID parses the :id path parameter and checks it names the
// authenticated user. Accounts can only be modified by their owner.
func (h *UserHandler) authorizedUserID(c *fiber.Ctx) (uint64, bool) {
	user := currentUser(c)
	if user == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id != user.ID {
		return 0, false
	}
	return id, true
}

func validateSignupInput(input *services.SignupInput) string {
	if strings.TrimSpace(input.Username) == "" {
		return "'username' is required."
	}
	if strings.TrimSpace(input.Email) == "" {
		return "'email' is required."
	}
	if input.Password == "" {
		return "'password' is required."
	}
	return ""
}
