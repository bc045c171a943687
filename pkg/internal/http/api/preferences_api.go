package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"git.solsynth.dev/hypernet/announcements/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/announcements/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxTopicsToUpdate = 1000

func (v *Controllers) editPreferences(c *fiber.Ctx) error {
	rc := exts.GetRequestContext(c)

	prefs, err := v.Preferences.Open(c.UserContext(), rc)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	view, err := v.Editor.EditPreferences(c.UserContext(), rc, prefs)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(view)
}

func (v *Controllers) savePreferences(c *fiber.Ctx) error {
	rc := exts.GetRequestContext(c)
	isJSON := c.Is("json")

	var form services.PreferencesForm
	if isJSON {
		if err := exts.BindAndValidate(c, &form); err != nil {
			return err
		}
	} else {
		var err error
		if form, err = parseIndexedForm(c); err != nil {
			return err
		}
	}

	prefs, err := v.Preferences.Open(c.UserContext(), rc)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	outcome, err := v.Editor.SavePreferences(c.UserContext(), rc, prefs, form)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMalformedTopicID):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	if isJSON {
		return c.JSON(outcome)
	}

	location, err := displayLocation(v.DisplayURL, outcome)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

// parseIndexedForm reads the portal form encoding, a count plus
// topicId_N, topicSubId_N and subscribed_N fields for every row.
func parseIndexedForm(c *fiber.Ctx) (services.PreferencesForm, error) {
	form := services.PreferencesForm{
		HideAbstract: c.FormValue("hideAbstract"),
	}

	count, err := strconv.Atoi(c.FormValue("topicsToUpdate"))
	if err != nil {
		return form, fiber.NewError(fiber.StatusBadRequest, "topicsToUpdate must be an integer")
	} else if count > maxTopicsToUpdate {
		return form, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("topicsToUpdate cannot exceed %d", maxTopicsToUpdate))
	}

	for idx := 0; idx < count; idx++ {
		form.Topics = append(form.Topics, services.SubscriptionEdit{
			TopicID:        c.FormValue(fmt.Sprintf("topicId_%d", idx)),
			SubscriptionID: c.FormValue(fmt.Sprintf("topicSubId_%d", idx)),
			Subscribed:     c.FormValue(fmt.Sprintf("subscribed_%d", idx)),
		})
	}

	return form, nil
}

func displayLocation(base string, outcome services.SaveOutcome) (string, error) {
	target, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid display url: %v", err)
	}

	query := target.Query()
	query.Set("mode", outcome.Mode)
	for key, val := range outcome.RenderParams {
		query.Set(key, val)
	}
	target.RawQuery = query.Encode()

	return target.String(), nil
}
