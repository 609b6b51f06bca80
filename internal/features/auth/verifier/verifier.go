// Package verifier authenticates Telegram Mini App init data.
//
// The payload is signed with HMAC-SHA256 over the sorted key=value lines of
// every field except hash. The signing key is itself
// HMAC-SHA256(key="WebAppData", message=botToken).
package verifier

import (
	"crypto/hmac"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// DefaultMaxAge is the age after which init data is reported as stale.
const DefaultMaxAge = 24 * time.Hour

type Config struct {
	// MaxAge defaults to DefaultMaxAge when zero.
	MaxAge time.Duration
	// RejectStale turns stale init data into ErrExpired. Off by default:
	// staleness is logged and exposed through Result.Stale only.
	RejectStale bool
	Now         func() time.Time
}

type Verifier struct {
	maxAge      time.Duration
	rejectStale bool
	now         func() time.Time
	logger      zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Verifier {
	v := &Verifier{
		maxAge:      cfg.MaxAge,
		rejectStale: cfg.RejectStale,
		now:         cfg.Now,
		logger:      logger.With().Str("component", "initdata_verifier").Logger(),
	}
	if v.maxAge <= 0 {
		v.maxAge = DefaultMaxAge
	}
	if v.now == nil {
		v.now = time.Now
	}
	return v
}

// UserField is the best-effort decoding of the signed user object.
type UserField struct {
	Present bool
	Value   initdata.User
	Err     error
}

// OK reports whether the user object was present and decoded.
func (f UserField) OK() bool {
	return f.Present && f.Err == nil
}

type Result struct {
	// Fields holds every signed field, hash excluded.
	Fields map[string]string
	// CheckString is the exact message that was authenticated.
	CheckString string `json:"-"`
	AuthDate    time.Time
	Stale       bool
	User        UserField
}

// Identity is the caller identity extracted from a verified payload.
type Identity struct {
	ID           string
	TelegramID   int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	IsPremium    bool
	PhotoURL     string
}

// Identity returns the caller identity, false when the user field was
// missing, malformed or carried no id.
func (r *Result) Identity() (Identity, bool) {
	if r == nil || !r.User.OK() || r.User.Value.ID == 0 {
		return Identity{}, false
	}
	u := r.User.Value
	return Identity{
		ID:           strconv.FormatInt(u.ID, 10),
		TelegramID:   u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		LanguageCode: u.LanguageCode,
		IsPremium:    u.IsPremium,
		PhotoURL:     u.PhotoURL,
	}, true
}

// Verify checks a payload with default settings and no logging.
func Verify(payload, botToken string) (*Result, error) {
	return New(Config{}, zerolog.Nop()).Verify(payload, botToken)
}

// Verify authenticates payload against botToken. It performs no I/O and
// keeps no state between calls.
func (v *Verifier) Verify(payload, botToken string) (*Result, error) {
	if payload == "" || botToken == "" {
		return nil, ErrMissingInput
	}

	fields := parseFields(payload)
	receivedHash, ok := fields[hashKey]
	if !ok || receivedHash == "" {
		v.logger.Debug().Msg("init data without hash")
		return nil, ErrMissingSignature
	}
	delete(fields, hashKey)

	checkString := CheckString(fields)
	calculatedHash := computeHash(checkString, botToken)

	if !hmac.Equal([]byte(calculatedHash), []byte(receivedHash)) {
		v.logger.Debug().Strs("keys", sortedKeys(fields)).Msg("init data signature mismatch")
		return nil, ErrSignatureMismatch
	}

	res := &Result{
		Fields:      fields,
		CheckString: checkString,
		User:        decodeUser(fields),
	}

	if raw, ok := fields[authDateKey]; ok {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			v.logger.Debug().Msg("init data auth_date is not a unix timestamp")
		} else {
			res.AuthDate = time.Unix(sec, 0).UTC()
			age := v.now().Sub(res.AuthDate)
			if age > v.maxAge {
				res.Stale = true
				if v.rejectStale {
					v.logger.Info().Str("telegram_id", userID(res)).Dur("age", age).Msg("stale init data rejected")
					return nil, fmt.Errorf("%w: age %s exceeds %s", ErrExpired, age.Truncate(time.Second), v.maxAge)
				}
				v.logger.Warn().Str("telegram_id", userID(res)).Dur("age", age).Msg("stale init data accepted")
			}
		}
	}

	if res.User.Present && res.User.Err != nil {
		v.logger.Debug().Err(res.User.Err).Msg("init data user field ignored")
	}

	v.logger.Debug().Bool("verified", true).Str("telegram_id", userID(res)).Msg("init data verified")
	return res, nil
}

func decodeUser(fields map[string]string) UserField {
	raw, ok := fields[userKey]
	if !ok {
		return UserField{}
	}

	var u initdata.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return UserField{Present: true, Err: fmt.Errorf("%w: %v", ErrMalformedUserField, err)}
	}
	return UserField{Present: true, Value: u}
}

func userID(r *Result) string {
	if id, ok := r.Identity(); ok {
		return id.ID
	}
	return ""
}
