package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sleepcountdown/config"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	allowedUser = int64(42)
	testProfile = "prof_1"
)

// fakeTelegram records outgoing messages
type fakeTelegram struct {
	sent     []tgbotapi.MessageConfig
	requests int
	sendErr  error
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeTelegram) GetWebhookInfo() (tgbotapi.WebhookInfo, error) {
	return tgbotapi.WebhookInfo{URL: "https://example.com/telegram/webhook"}, nil
}

func (f *fakeTelegram) lastText() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

// fakeClient serves canned countdown API responses
type fakeClient struct {
	profile    *Profile
	countdown  *Countdown
	timeline   *Timeline
	activities []Activity
	startErr   error
	err        error
	ended      []string
	presets    []string
}

func (f *fakeClient) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func (f *fakeClient) GetCountdown(ctx context.Context, profileID string) (*Countdown, error) {
	return f.countdown, f.err
}

func (f *fakeClient) GetTimeline(ctx context.Context, profileID, preset string) (*Timeline, error) {
	f.presets = append(f.presets, preset)
	return f.timeline, f.err
}

func (f *fakeClient) StartActivity(ctx context.Context, profileID string) (*Activity, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &Activity{
		ID:        "act_1",
		ProfileID: profileID,
		Name:      "Sleep Timer",
		Status:    "active",
		EndsAt:    time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC),
		Content:   ActivityContent{Phase: "wakeup", Countdown: "7:30:00"},
	}, nil
}

func (f *fakeClient) ListActivities(ctx context.Context) ([]Activity, error) {
	return f.activities, f.err
}

func (f *fakeClient) EndActivity(ctx context.Context, activityID string) (*Activity, error) {
	f.ended = append(f.ended, activityID)
	return &Activity{ID: activityID, Name: "Sleep Timer", Status: "ended"}, nil
}

func setupBot(t *testing.T) (*Bot, *fakeTelegram, *fakeClient) {
	t.Helper()

	cfg := &config.BotConfig{
		Telegram: config.TelegramBotConfig{AllowedUsers: []int64{allowedUser}},
		API:      config.CountdownAPIConfig{ProfileID: testProfile},
	}
	api := &fakeTelegram{}
	client := &fakeClient{
		profile: &Profile{ID: testProfile, Name: "Alice", Timezone: "UTC", Bedtime: "22:00", Wakeup: "07:00"},
		countdown: &Countdown{
			Phase:            "bedtime",
			SecondsRemaining: 36000,
			Progress:         1.0 / 3,
			Target:           time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC),
			Card:             Card{Text: "Time until bedtime"},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return newBot(api, client, cfg, logger), api, client
}

func commandUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: 100},
			Text: text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: commandLength(text)},
			},
		},
	}
}

func TestBot_RejectsUnknownUsers(t *testing.T) {
	bot, api, _ := setupBot(t)

	err := bot.HandleUpdate(context.Background(), commandUpdate(7, "/countdown"))

	require.NoError(t, err)
	assert.Contains(t, api.lastText(), "not authorized")
}

func TestBot_IgnoresUpdatesWithoutUser(t *testing.T) {
	bot, api, _ := setupBot(t)

	err := bot.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 3})

	require.NoError(t, err)
	assert.Empty(t, api.sent)
}

func TestBot_Commands(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		contains string
	}{
		{"start", "/start", "Welcome to Sleep Countdown"},
		{"countdown", "/countdown", "10:00:00"},
		{"sleep", "/sleep", "Sleep Timer started"},
		{"unknown", "/bogus", "Unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, api, _ := setupBot(t)

			err := bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, tt.text))

			require.NoError(t, err)
			assert.Contains(t, api.lastText(), tt.contains)
		})
	}
}

func TestBot_TimelinePreset(t *testing.T) {
	bot, api, client := setupBot(t)
	client.timeline = &Timeline{Step: "5m0s", Horizon: "1h0m0s"}

	require.NoError(t, bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, "/timeline control")))
	require.NoError(t, bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, "/timeline")))

	assert.Equal(t, []string{"control", "widget"}, client.presets)
	assert.Contains(t, api.lastText(), "every 5m for 1h")
}

func TestBot_SleepAlreadyRunning(t *testing.T) {
	bot, api, client := setupBot(t)
	client.startErr = fmt.Errorf("%w: busy", ErrActivityAlreadyActive)

	require.NoError(t, bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, "/sleep")))

	assert.Contains(t, api.lastText(), "already running")
}

func TestBot_WakeEndsProfileActivity(t *testing.T) {
	bot, api, client := setupBot(t)
	client.activities = []Activity{
		{ID: "act_other", ProfileID: "prof_2"},
		{ID: "act_mine", ProfileID: testProfile},
	}

	require.NoError(t, bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, "/wake")))

	assert.Equal(t, []string{"act_mine"}, client.ended)
	assert.Contains(t, api.lastText(), "ended")
}

func TestBot_WakeWithoutActivity(t *testing.T) {
	bot, api, client := setupBot(t)

	require.NoError(t, bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, "/wake")))

	assert.Empty(t, client.ended)
	assert.Contains(t, api.lastText(), "No live activity")
}

func TestBot_APIErrorIsReported(t *testing.T) {
	bot, api, client := setupBot(t)
	client.err = errors.New("API error 404: Profile not found (PROFILE_NOT_FOUND)")

	require.NoError(t, bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, "/countdown")))

	assert.Contains(t, api.lastText(), "PROFILE_NOT_FOUND")
}

func TestBot_CallbackReplaysCommand(t *testing.T) {
	bot, api, _ := setupBot(t)

	update := tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: allowedUser},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
			Data:    "/countdown",
		},
	}

	require.NoError(t, bot.HandleUpdate(context.Background(), update))

	assert.Equal(t, 1, api.requests)
	assert.Contains(t, api.lastText(), "Alice")
}

func TestBot_SendFailure(t *testing.T) {
	bot, api, _ := setupBot(t)
	api.sendErr = errors.New("telegram down")

	err := bot.HandleUpdate(context.Background(), commandUpdate(allowedUser, "/start"))

	assert.Error(t, err)
}

func TestCommandLength(t *testing.T) {
	assert.Equal(t, 9, commandLength("/timeline control"))
	assert.Equal(t, 6, commandLength("/start"))
}
