package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"miniapp-user-backend/internal/features/user/models"
	"miniapp-user-backend/internal/features/user/repository"

	"github.com/redis/go-redis/v9"
)

// Hash fields of a stored user, named after the JSON properties.
const (
	fieldTelegramID   = "telegram_id"
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldUsername     = "username"
	fieldLanguageCode = "language_code"
	fieldUserData     = "user_data"
	fieldCreatedAt    = "created_at"
	fieldUpdatedAt    = "updated_at"
)

const DefaultKeyPrefix = "user:"

// updateScript writes the given fields only when the record exists and
// returns the whole record, so a patch is applied in one round trip.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return redis.call('HGETALL', KEYS[1])
`)

type userRepository struct {
	client    redis.Cmdable
	keyPrefix string
}

func NewUserRepository(client redis.Cmdable, keyPrefix string) repository.UserRepository {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &userRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *userRepository) key(id string) string {
	return r.keyPrefix + id
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	values, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, unavailable("get", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrUserNotFound
	}

	return decodeUser(values)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	fields, err := encodeUser(user)
	if err != nil {
		return err
	}

	key := r.key(user.TelegramID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		return nil
	})
	if err != nil {
		return unavailable("create", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch models.UserPatch, updatedAt time.Time) (*models.User, error) {
	args := []interface{}{fieldUpdatedAt, formatTime(updatedAt)}
	if patch.FirstName != nil {
		args = append(args, fieldFirstName, *patch.FirstName)
	}
	if patch.LastName != nil {
		args = append(args, fieldLastName, *patch.LastName)
	}
	if patch.UserData != nil {
		data, err := json.Marshal(patch.UserData)
		if err != nil {
			return nil, fmt.Errorf("encode user data: %w", err)
		}
		args = append(args, fieldUserData, string(data))
	}

	reply, err := updateScript.Run(ctx, r.client, []string{r.key(id)}, args...).Slice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrUserNotFound
		}
		return nil, unavailable("update", err)
	}

	values, err := pairsToMap(reply)
	if err != nil {
		return nil, err
	}
	return decodeUser(values)
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, unavailable("exists", err)
	}
	return n > 0, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", repository.ErrStoreUnavailable, op, err)
}

func encodeUser(user *models.User) (map[string]interface{}, error) {
	data := user.UserData
	if data == nil {
		data = map[string]interface{}{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode user data: %w", err)
	}

	return map[string]interface{}{
		fieldTelegramID:   user.TelegramID,
		fieldFirstName:    user.FirstName,
		fieldLastName:     user.LastName,
		fieldUsername:     user.Username,
		fieldLanguageCode: user.LanguageCode,
		fieldUserData:     string(encoded),
		fieldCreatedAt:    formatTime(user.CreatedAt),
		fieldUpdatedAt:    formatTime(user.UpdatedAt),
	}, nil
}

func decodeUser(values map[string]string) (*models.User, error) {
	user := &models.User{
		TelegramID:   values[fieldTelegramID],
		FirstName:    values[fieldFirstName],
		LastName:     values[fieldLastName],
		Username:     values[fieldUsername],
		LanguageCode: values[fieldLanguageCode],
	}

	if raw := values[fieldUserData]; raw != "" {
		if err := decodeUserData(raw, &user.UserData); err != nil {
			return nil, fmt.Errorf("%w: user_data: %v", repository.ErrCorruptRecord, err)
		}
	}
	if user.UserData == nil {
		user.UserData = map[string]interface{}{}
	}

	var err error
	if user.CreatedAt, err = parseTime(values[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("%w: created_at: %v", repository.ErrCorruptRecord, err)
	}
	if user.UpdatedAt, err = parseTime(values[fieldUpdatedAt]); err != nil {
		return nil, fmt.Errorf("%w: updated_at: %v", repository.ErrCorruptRecord, err)
	}

	return user, nil
}

// decodeUserData keeps numbers as json.Number so integers beyond 2^53
// survive the round trip.
func decodeUserData(raw string, dst *map[string]interface{}) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}

func pairsToMap(reply []interface{}) (map[string]string, error) {
	if len(reply)%2 != 0 {
		return nil, fmt.Errorf("%w: odd HGETALL reply", repository.ErrCorruptRecord)
	}
	values := make(map[string]string, len(reply)/2)
	for i := 0; i < len(reply); i += 2 {
		k, okKey := reply[i].(string)
		v, okValue := reply[i+1].(string)
		if !okKey || !okValue {
			return nil, fmt.Errorf("%w: unexpected HGETALL reply", repository.ErrCorruptRecord)
		}
		values[k] = v
	}
	return values, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
