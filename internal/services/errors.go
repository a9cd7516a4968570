// Package services содержит общие помощники HTTP-сервисов SkillSphere.
package services

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillsphere-api/internal/models"
	"github.com/rajivgeraev/skillsphere-api/internal/store"
)

// StoreError переводит ошибку хранилища в JSON-ответ с подходящим статусом
func StoreError(c fiber.Ctx, err error, message string) error {
	code := StatusFor(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("%s: %v", message, err)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

// StatusFor HTTP-статус для ошибки хранилища
func StatusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, store.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// BadRequest ответ 400 с сообщением
func BadRequest(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// ValidationFailed ответ 400 для ошибки проверки формы с указанием поля
func ValidationFailed(c fiber.Ctx, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": verr.Message,
			"field": verr.Field,
		})
	}
	return BadRequest(c, err.Error())
}
