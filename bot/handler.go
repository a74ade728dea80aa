package bot

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// EventHandler is the Slack Events API endpoint: URL verification plus
// message/mention callbacks routed into the bot.
func (b *Bot) EventHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if eventsAPIEvent.Type == slackevents.URLVerification {
		var cr *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &cr); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text")
		w.Write([]byte(cr.Challenge))
		return
	}

	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		innerEvent := eventsAPIEvent.InnerEvent
		switch ev := innerEvent.Data.(type) {
		case *slackevents.MessageEvent:
			msg := slack.Msg{
				Type:      ev.Type,
				Channel:   ev.Channel,
				Text:      ev.Text,
				Timestamp: ev.TimeStamp,
				User:      ev.User,
				Username:  ev.Username,
				BotID:     ev.BotID,
			}
			b.handleMessage(&slack.MessageEvent{Msg: msg}, ev.ChannelType == "im")
		case *slackevents.AppMentionEvent:
			msg := slack.Msg{
				Type:      ev.Type,
				Channel:   ev.Channel,
				Text:      ev.Text,
				Timestamp: ev.TimeStamp,
				User:      ev.User,
				BotID:     ev.BotID,
			}
			b.handleMessage(&slack.MessageEvent{Msg: msg}, false)
		}
	}

	w.WriteHeader(http.StatusOK)
}
