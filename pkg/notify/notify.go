// Package notify pings the platform admin on Telegram when something
// needs a look: a fresh onboarding submission or a new trip. Send-only;
// the bot handles no inbound commands. A nil *Notifier is a no-op, so the
// rest of the code never checks whether the bot is configured.
package notify

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"washride/pkg/logger"
	"washride/pkg/models"
)

type Notifier struct {
	bot    *tele.Bot
	chatID int64
	log    logger.ILogger
}

// New returns nil (disabled) when token is empty or chatID is zero.
func New(token string, chatID int64, log logger.ILogger) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	return &Notifier{bot: b, chatID: chatID, log: log}, nil
}

func (n *Notifier) send(text string) {
	if n == nil {
		return
	}
	_, err := n.bot.Send(tele.ChatID(n.chatID), text, tele.ModeHTML)
	if err != nil {
		n.log.Warning("admin notification failed", logger.Error(err))
	}
}

func (n *Notifier) OnboardingSubmitted(acc *models.Account) {
	n.send(fmt.Sprintf("🔔 <b>New onboarding</b>\n#%d %s (%s) is awaiting approval.",
		acc.ID, acc.FullName, acc.Role))
}

func (n *Notifier) VehicleSubmitted(v *models.Vehicle, ownerName string) {
	n.send(fmt.Sprintf("🚗 <b>New vehicle</b>\n%s %s (%s), owner %s, awaiting approval.",
		v.Make, v.Model, v.PlateNumber, ownerName))
}

func (n *Notifier) TripCreated(t *models.Trip) {
	n.send(fmt.Sprintf("🗺 <b>New trip</b> #%d\n%s ➡️ %s\n💰 %d %s",
		t.ID, t.PickupAddress, t.DropoffAddress, t.Price, t.Currency))
}
