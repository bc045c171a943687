package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (v *Controllers) listTopics(c *fiber.Ctx) error {
	topics, err := v.Announcements.ListTopics(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(topics)
}

func (v *Controllers) getTopic(c *fiber.Ctx) error {
	topicId, err := c.ParamsInt("topicId", 0)
	if err != nil || topicId <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid topic id")
	}

	topic, err := v.Announcements.GetTopic(c.UserContext(), uint(topicId))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(topic)
}
