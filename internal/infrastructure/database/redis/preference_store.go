package redis

import (
	"context"
	"strconv"
	"strings"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Hash fields of a preferences key.
const (
	fieldLanguage    = "language"
	fieldShowLanding = "show_landing"
)

// PreferenceStore keeps each user's preferences in one hash,
// <prefix>prefs:<user>. Entries never expire.
type PreferenceStore struct {
	client *Client
	logger logging.Logger
}

// NewPreferenceStore returns a material.PreferenceStore backed by client.
func NewPreferenceStore(client *Client, log logging.Logger) *PreferenceStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &PreferenceStore{client: client, logger: log}
}

var _ material.PreferenceStore = (*PreferenceStore)(nil)

func (s *PreferenceStore) key(user string) string { return s.client.Key("prefs", user) }

// Load returns the stored preferences, filling unset or unreadable fields
// with the defaults.
func (s *PreferenceStore) Load(ctx context.Context, user string) (material.Preferences, error) {
	if err := checkUser(user); err != nil {
		return material.Preferences{}, err
	}
	if s.client.isClosed() {
		return material.Preferences{}, ErrClientClosed
	}
	fields, err := s.client.rdb.HGetAll(ctx, s.key(user)).Result()
	if err != nil {
		return material.Preferences{}, errors.Wrap(err, errors.ErrCodeCacheError, "failed to load preferences")
	}

	p := material.DefaultPreferences()
	if raw, ok := fields[fieldLanguage]; ok {
		if lang, err := material.ParseLanguage(raw); err == nil {
			p.Language = lang
		} else {
			s.logger.Warn("ignoring stored language", logging.String("user", user), logging.String("language", raw))
		}
	}
	if raw, ok := fields[fieldShowLanding]; ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			p.ShowLanding = v
		}
	}
	p.RTL = p.Language.RTL()
	return p, nil
}

// Save validates p.Language and writes both fields.
func (s *PreferenceStore) Save(ctx context.Context, user string, p material.Preferences) error {
	if err := checkUser(user); err != nil {
		return err
	}
	lang, err := material.ParseLanguage(string(p.Language))
	if err != nil {
		return err
	}
	if s.client.isClosed() {
		return ErrClientClosed
	}
	err = s.client.rdb.HSet(ctx, s.key(user),
		fieldLanguage, string(lang),
		fieldShowLanding, strconv.FormatBool(p.ShowLanding),
	).Err()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to save preferences")
	}
	return nil
}

func checkUser(user string) error {
	if strings.TrimSpace(user) == "" || strings.ContainsAny(user, ": \t\n") {
		return errors.New(errors.ErrCodePreferenceInvalid, "invalid user id").WithDetail(user)
	}
	return nil
}
