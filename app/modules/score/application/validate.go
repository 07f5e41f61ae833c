package scoreservice

import (
	"strings"
	"unicode/utf8"

	"github.com/Black-And-White-Club/score-bot/app/shared"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

func validateID(kind, id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return shared.InvalidArgumentf("%s is required", kind)
	case len(id) > sharedtypes.MaxIDLength:
		return shared.InvalidArgumentf("%s %q is too long", kind, id)
	}
	return nil
}

// normalizeCategory trims surrounding whitespace and enforces the category
// policy. Categories stay case-sensitive.
func normalizeCategory(category string, maxLength int) (string, error) {
	c := strings.TrimSpace(category)
	if c == "" {
		return "", shared.InvalidArgumentf("category must not be empty")
	}
	if utf8.RuneCountInString(c) > maxLength {
		return "", shared.InvalidArgumentf("category exceeds %d characters", maxLength)
	}
	return c, nil
}

func validateUpdate(update guildtypes.ConfigUpdate) error {
	if r := update.AdminRoleID; r != nil && len(*r) > sharedtypes.MaxIDLength {
		return shared.InvalidArgumentf("admin role %q is too long", *r)
	}
	if r := update.JudgeRoleID; r != nil && len(*r) > sharedtypes.MaxIDLength {
		return shared.InvalidArgumentf("judge role %q is too long", *r)
	}
	return nil
}

// ResolveSingleReceiver returns the only receiver in ids. Zero or several
// distinct receivers is an invalid argument.
func ResolveSingleReceiver(ids []sharedtypes.DiscordID) (sharedtypes.DiscordID, error) {
	var receiver sharedtypes.DiscordID
	for _, id := range ids {
		if id == "" || id == receiver {
			continue
		}
		if receiver != "" {
			return "", shared.InvalidArgumentf("exactly one receiver is required, got several")
		}
		receiver = id
	}
	if receiver == "" {
		return "", shared.InvalidArgumentf("exactly one receiver is required, got none")
	}
	return receiver, nil
}
