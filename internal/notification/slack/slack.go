package slack

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/saucelabs/zipdeploy/internal/config"
	"github.com/saucelabs/zipdeploy/internal/human"
	"github.com/saucelabs/zipdeploy/internal/report"
)

const (
	colorPassed = "#008000"
	colorFailed = "#F00000"
)

// Notifier posts publish results to slack channels.
type Notifier struct {
	Token  string
	Config config.Slack
	// APIURL overrides the slack api endpoint. Must end with a slash.
	APIURL string
}

// Notify posts r to every configured channel, if the send condition is met.
func (n *Notifier) Notify(ctx context.Context, r report.Result) {
	if !n.shouldSendNotification(r.Passed) {
		return
	}

	var opts []slack.Option
	if n.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(n.APIURL))
	}
	api := slack.New(n.Token, opts...)
	attachment := newAttachment(r)

	for _, c := range n.Config.Channels {
		channelID, timestamp, err := api.PostMessageContext(ctx,
			c,
			slack.MsgOptionText(headline(r), false),
			slack.MsgOptionAttachments(attachment),
		)
		if err != nil {
			log.Error().Err(err).Str("channel", c).Msg("Failed to send message to slack.")
			continue
		}
		log.Info().Msgf("Message successfully sent to slack channel %s at %s", channelID, timestamp)
	}
}

func (n *Notifier) shouldSendNotification(passed bool) bool {
	if n.Token == "" || len(n.Config.Channels) == 0 {
		return false
	}

	return n.Config.Send.IsNow(passed)
}

func headline(r report.Result) string {
	if r.Passed {
		return fmt.Sprintf("%s has been published", r.Name)
	}
	return fmt.Sprintf("Failed to publish %s", r.Name)
}

func newAttachment(r report.Result) slack.Attachment {
	color := colorFailed
	if r.Passed {
		color = colorPassed
	}

	fields := []slack.AttachmentField{
		{Title: "Source", Value: r.Source},
		{Title: "Target", Value: r.URL},
		{Title: "Files", Value: strconv.Itoa(r.Files), Short: true},
		{Title: "Size", Value: human.Bytes(r.Size), Short: true},
		{Title: "Outcome", Value: r.Outcome, Short: true},
		{Title: "Duration", Value: r.Duration.Round(time.Millisecond).String(), Short: true},
	}
	if r.Error != "" {
		fields = append(fields, slack.AttachmentField{Title: "Error", Value: r.Error})
	}
	if r.CI != nil && r.CI.OriginURL != "" {
		fields = append(fields, slack.AttachmentField{Title: "Build", Value: r.CI.OriginURL})
	}

	return slack.Attachment{
		Color:  color,
		Title:  r.Name,
		Fields: fields,
		Footer: "zipdeploy",
	}
}
