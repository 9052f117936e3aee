package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"smarttrack/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountOutput_HidesCredentials(t *testing.T) {
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "alice@x.io",
		FullName:     "Alice",
		PasswordHash: "$2a$12$secret",
		GoogleID:     "g-1",
		Verified:     true,
		CreatedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(NewAccountOutput(account))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.ElementsMatch(t,
		[]string{"id", "email", "full_name", "avatar_url", "verified", "created_at"},
		keys(fields),
	)
	assert.Nil(t, fields["avatar_url"])
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "g-1")
}

func TestNewAccountOutput_Avatar(t *testing.T) {
	output := NewAccountOutput(&entity.Account{AvatarURL: "https://img.example/a.png"})
	require.NotNil(t, output.AvatarURL)
	assert.Equal(t, "https://img.example/a.png", *output.AvatarURL)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}
