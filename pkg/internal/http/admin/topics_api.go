package admin

import (
	"errors"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func (v *Controllers) ensureAdmin(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := exts.GetRequestContext(c).Owner()
	if !lo.Contains(v.Admins, user) {
		return fiber.NewError(fiber.StatusForbidden, "you need to be an announcements admin")
	}
	return c.Next()
}

func (v *Controllers) fetchTopic(c *fiber.Ctx) (models.Topic, error) {
	topicId, err := c.ParamsInt("topicId", 0)
	if err != nil || topicId <= 0 {
		return models.Topic{}, fiber.NewError(fiber.StatusBadRequest, "topic id must be a positive integer")
	}

	topic, err := v.Announcements.FetchTopic(c.UserContext(), uint(topicId))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return topic, fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if err != nil {
		return topic, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return topic, nil
}

type topicRequest struct {
	Title              string `json:"title" validate:"required,max=256"`
	Description        string `json:"description" validate:"max=4096"`
	SubscriptionMethod int    `json:"subscription_method" validate:"required,min=1,max=4"`
	AllowRss           bool   `json:"allow_rss"`
}

func (v *Controllers) adminCreateTopic(c *fiber.Ctx) error {
	var data topicRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	topic, err := v.Announcements.NewTopic(c.UserContext(), models.Topic{
		Title:              data.Title,
		Description:        data.Description,
		SubscriptionMethod: data.SubscriptionMethod,
		AllowRss:           data.AllowRss,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(topic)
}

func (v *Controllers) adminEditTopic(c *fiber.Ctx) error {
	topic, err := v.fetchTopic(c)
	if err != nil {
		return err
	}

	var data topicRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	topic.Title = data.Title
	topic.Description = data.Description
	topic.SubscriptionMethod = data.SubscriptionMethod
	topic.AllowRss = data.AllowRss

	if topic, err = v.Announcements.EditTopic(c.UserContext(), topic); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(topic)
}

func (v *Controllers) adminDeleteTopic(c *fiber.Ctx) error {
	topic, err := v.fetchTopic(c)
	if err != nil {
		return err
	}

	if err := v.Announcements.DeleteTopic(c.UserContext(), topic); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func (v *Controllers) adminPurgeAccount(c *fiber.Ctx) error {
	if err := v.Accounts.PurgeAccount(c.UserContext(), c.Params("owner")); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
