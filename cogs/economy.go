package cogs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dgb-go/games/duck"
	"dgb-go/utils"

	"github.com/bwmarrin/discordgo"
)

var (
	store       utils.Store
	games       *duck.Manager
	leaderboard = utils.NewLeaderboardCache(utils.LeaderboardTTL)
)

// Setup wires the economy commands against the ledger and the game manager.
// Game settlements move the largest balances, so they invalidate the
// leaderboard cache the same way the economy transfers do.
func Setup(s utils.Store, m *duck.Manager) {
	store = s
	games = m
	games.OnSettle(leaderboard.Invalidate)
}

// RegisterEconomyCommands describes every economy slash command.
func RegisterEconomyCommands() []*discordgo.ApplicationCommand {
	userOpt := func(name, desc string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        name,
			Description: desc,
			Required:    required,
		}
	}
	amountOpt := func(desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "amount",
			Description: desc,
			Required:    true,
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Show a player's wallet and bank balance",
			Options:     []*discordgo.ApplicationCommandOption{userOpt("user", "Player to look up (defaults to you)", false)},
		},
		{
			Name:        "deposit",
			Description: "Move money from your wallet into the bank",
			Options:     []*discordgo.ApplicationCommandOption{amountOpt("Amount (e.g. 250, 10k, half, all)")},
		},
		{
			Name:        "withdraw",
			Description: "Move money from the bank into your wallet",
			Options:     []*discordgo.ApplicationCommandOption{amountOpt("Amount (e.g. 250, 10k, half, all)")},
		},
		{
			Name:        "send",
			Description: "Send wallet money to another player",
			Options: []*discordgo.ApplicationCommandOption{
				userOpt("user", "Player to pay", true),
				amountOpt("Amount (e.g. 250, 10k, half, all)"),
			},
		},
		{
			Name:        "earn",
			Description: "Collect your hourly payout",
		},
		{
			Name:        "rob",
			Description: "Try to rob another player's wallet",
			Options:     []*discordgo.ApplicationCommandOption{userOpt("user", "Player to rob", true)},
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest players",
		},
		{
			Name:        "setmoney",
			Description: "Admin: set a player's wallet or bank balance",
			Options: []*discordgo.ApplicationCommandOption{
				userOpt("user", "Player to adjust", true),
				amountOpt("New balance"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "account",
					Description: "Which balance to set",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "wallet", Value: "wallet"},
						{Name: "bank", Value: "bank"},
					},
				},
			},
		},
		{
			Name:        "release",
			Description: "Admin: clear a stuck game session flag",
			Options: []*discordgo.ApplicationCommandOption{
				userOpt("user", "Player to release (omit to release everyone)", false),
			},
		},
		{
			Name:        "releaseme",
			Description: "Clear your own stuck game session flag",
		},
	}
}

// HandleEconomyCommand dispatches a slash command to its handler. Returns
// false when the command is not an economy command.
func HandleEconomyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	switch i.ApplicationCommandData().Name {
	case "balance":
		handleBalance(s, i)
	case "deposit":
		handleDeposit(s, i)
	case "withdraw":
		handleWithdraw(s, i)
	case "send":
		handleSend(s, i)
	case "earn":
		handleEarn(s, i)
	case "rob":
		handleRob(s, i)
	case "leaderboard":
		handleLeaderboard(s, i)
	case "setmoney":
		handleSetMoney(s, i)
	case "release":
		handleRelease(s, i)
	case "releaseme":
		handleReleaseMe(s, i)
	default:
		return false
	}
	return true
}

func handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := i.Member.User
	if u := optionUser(s, i, "user"); u != nil {
		target = u
	}
	userID, err := utils.ParseUserID(target.ID)
	if err != nil {
		return
	}

	rec, err := store.Read(context.Background(), userID)
	if err != nil {
		respondStorageFault(s, i, "balance", err)
		return
	}
	_ = utils.SendInteractionResponse(s, i, utils.BalanceEmbed(target.Username, rec), nil, false)
}

func handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}
	spec := optionString(i, "amount")

	var moved int64
	rec, err := store.Mutate(context.Background(), userID, func(r *utils.Record) error {
		amount, err := utils.ParseAmount(spec, r.Wallet)
		if err != nil {
			return err
		}
		if amount > r.Wallet {
			return utils.ErrInsufficientFunds
		}
		r.Wallet -= amount
		r.Bank += amount
		moved = amount
		return nil
	})
	if err != nil {
		respondAmountError(s, i, err)
		return
	}

	embed := utils.CreateBrandedEmbed("Deposit",
		fmt.Sprintf("Moved %s into the bank.", utils.FormatMoney(moved)), utils.ColorWin)
	embed.Fields = balanceFields(rec)
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

func handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}
	spec := optionString(i, "amount")

	var moved int64
	rec, err := store.Mutate(context.Background(), userID, func(r *utils.Record) error {
		amount, err := utils.ParseAmount(spec, r.Bank)
		if err != nil {
			return err
		}
		if amount > r.Bank {
			return utils.ErrInsufficientFunds
		}
		r.Bank -= amount
		r.Wallet += amount
		moved = amount
		return nil
	})
	if err != nil {
		respondAmountError(s, i, err)
		return
	}

	embed := utils.CreateBrandedEmbed("Withdraw",
		fmt.Sprintf("Moved %s into your wallet.", utils.FormatMoney(moved)), utils.ColorWin)
	embed.Fields = balanceFields(rec)
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

func handleSend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	senderID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}
	target := optionUser(s, i, "user")
	if target == nil {
		return
	}
	targetID, err := utils.ParseUserID(target.ID)
	if err != nil {
		return
	}
	if target.Bot || targetID == senderID {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You can't send money to that user."), nil, true)
		return
	}
	spec := optionString(i, "amount")

	var moved int64
	senderRec, _, err := store.MutateTwo(context.Background(), senderID, targetID,
		func(sender, receiver *utils.Record) error {
			amount, err := utils.ParseAmount(spec, sender.Wallet)
			if err != nil {
				return err
			}
			if amount > sender.Wallet {
				return utils.ErrInsufficientFunds
			}
			sender.Wallet -= amount
			receiver.Wallet += amount
			moved = amount
			return nil
		})
	if err != nil {
		respondAmountError(s, i, err)
		return
	}
	leaderboard.Invalidate()

	embed := utils.CreateBrandedEmbed("Payment Sent",
		fmt.Sprintf("Sent %s to %s.", utils.FormatMoney(moved), target.Mention()), utils.ColorWin)
	embed.Fields = balanceFields(senderRec)
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

func handleEarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}

	now := time.Now()
	rec, err := store.Mutate(context.Background(), userID, func(r *utils.Record) error {
		if remaining := utils.CooldownRemaining(r.LastEarn, utils.EarnCooldown, now); remaining > 0 {
			return &utils.CooldownError{Remaining: remaining}
		}
		r.Wallet += utils.EarnAmount
		r.LastEarn = now.Unix()
		return nil
	})
	var cd *utils.CooldownError
	if errors.As(err, &cd) {
		_ = utils.SendInteractionResponse(s, i, utils.CooldownEmbed("earn", cd.Remaining), nil, true)
		return
	}
	if err != nil {
		respondStorageFault(s, i, "earn", err)
		return
	}
	leaderboard.Invalidate()

	embed := utils.CreateBrandedEmbed("Payday",
		fmt.Sprintf("You earned %s!", utils.FormatMoney(utils.EarnAmount)), utils.ColorWin)
	embed.Fields = balanceFields(rec)
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

func handleRob(s *discordgo.Session, i *discordgo.InteractionCreate) {
	robberID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}
	target := optionUser(s, i, "user")
	if target == nil {
		return
	}
	victimID, err := utils.ParseUserID(target.ID)
	if err != nil {
		return
	}
	if target.Bot || victimID == robberID {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You can't rob that user."), nil, true)
		return
	}

	now := time.Now()
	var (
		success bool
		amount  int64
	)
	robberRec, _, err := store.MutateTwo(context.Background(), robberID, victimID,
		func(robber, victim *utils.Record) error {
			if remaining := utils.CooldownRemaining(robber.LastRob, utils.RobCooldown, now); remaining > 0 {
				return &utils.CooldownError{Remaining: remaining}
			}
			if victim.Wallet <= 0 {
				return utils.ErrInsufficientFunds
			}
			robber.LastRob = now.Unix()

			success = utils.SecureBelow(100) < utils.RobSuccessPercent
			if success {
				spread := utils.RobMaxSharePercent - utils.RobMinSharePercent + 1
				share := utils.RobMinSharePercent + utils.SecureBelow(spread)
				amount = victim.Wallet * share / 100
				victim.Wallet -= amount
				robber.Wallet += amount
			} else {
				amount = robber.Wallet * utils.RobFinePercent / 100
				robber.Wallet -= amount
				victim.Wallet += amount
			}
			return nil
		})
	var cd *utils.CooldownError
	switch {
	case errors.As(err, &cd):
		_ = utils.SendInteractionResponse(s, i, utils.CooldownEmbed("rob", cd.Remaining), nil, true)
		return
	case errors.Is(err, utils.ErrInsufficientFunds):
		_ = utils.SendInteractionResponse(s, i,
			utils.ErrorEmbed(fmt.Sprintf("%s has nothing worth stealing.", target.Username)), nil, true)
		return
	case err != nil:
		respondStorageFault(s, i, "rob", err)
		return
	}
	leaderboard.Invalidate()

	var embed *discordgo.MessageEmbed
	if success {
		embed = utils.CreateBrandedEmbed("Robbery",
			fmt.Sprintf("You robbed %s of %s!", target.Mention(), utils.FormatMoney(amount)), utils.ColorWin)
	} else {
		embed = utils.CreateBrandedEmbed("Robbery",
			fmt.Sprintf("You got caught and paid %s a fine of %s.", target.Mention(), utils.FormatMoney(amount)), utils.ColorLoss)
	}
	embed.Fields = balanceFields(robberRec)
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

// handleLeaderboard defers first: a cold cache scans the whole ledger, which
// can blow the initial-response window on the Postgres backend.
func handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := utils.DeferInteractionResponse(s, i, false); err != nil {
		log.Printf("economy: leaderboard defer failed: %v", err)
		return
	}

	entries, err := leaderboard.Top(context.Background(), store, 10)
	if err != nil {
		log.Printf("economy: leaderboard failed: %v", err)
		_ = utils.TryEphemeralFollowup(s, i, utils.MsgStorageFault)
		return
	}

	description := "Nobody has any money yet."
	if len(entries) > 0 {
		var b strings.Builder
		medals := []string{"🥇", "🥈", "🥉"}
		for idx, e := range entries {
			rank := fmt.Sprintf("**%d.**", idx+1)
			if idx < len(medals) {
				rank = medals[idx]
			}
			fmt.Fprintf(&b, "%s <@%d> — %s (%dW/%dL)\n", rank, e.UserID, utils.FormatMoney(e.Total), e.Wins, e.Losses)
		}
		description = b.String()
	}

	embed := utils.CreateBrandedEmbed("Leaderboard", description, utils.ColorInfo)
	if err := utils.EditOriginalInteractionWithRetry(s, i, embed, nil, 2); err != nil {
		log.Printf("economy: leaderboard edit failed: %v", err)
	}
}

func handleSetMoney(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !utils.MemberIsAdmin(s, i) {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You need the admin role for that."), nil, true)
		return
	}
	target := optionUser(s, i, "user")
	if target == nil {
		return
	}
	targetID, err := utils.ParseUserID(target.ID)
	if err != nil {
		return
	}

	spec := optionString(i, "amount")
	amount, err := utils.ParseAmount(spec, 0)
	if err != nil {
		// A literal zero is a legitimate admin reset even though bets reject it.
		if !errors.Is(err, utils.ErrInvalidAmount) || strings.TrimSpace(spec) != "0" {
			_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Invalid amount."), nil, true)
			return
		}
		amount = 0
	}
	account := optionString(i, "account")
	if account == "" {
		account = "wallet"
	}

	rec, err := store.Mutate(context.Background(), targetID, func(r *utils.Record) error {
		if account == "bank" {
			r.Bank = amount
		} else {
			r.Wallet = amount
		}
		return nil
	})
	if err != nil {
		respondStorageFault(s, i, "setmoney", err)
		return
	}
	leaderboard.Invalidate()

	embed := utils.CreateBrandedEmbed("Balance Updated",
		fmt.Sprintf("Set %s's %s to %s.", target.Mention(), account, utils.FormatMoney(amount)), utils.ColorWarn)
	embed.Fields = balanceFields(rec)
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

func handleRelease(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !utils.MemberIsAdmin(s, i) {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("You need the admin role for that."), nil, true)
		return
	}

	ctx := context.Background()
	target := optionUser(s, i, "user")
	if target == nil {
		n, err := games.ReleaseAll(ctx)
		if err != nil {
			respondStorageFault(s, i, "release", err)
			return
		}
		_ = utils.SendInteractionResponse(s, i,
			utils.CreateBrandedEmbed("Sessions Released",
				fmt.Sprintf("Cleared %d stuck session flag(s).", n), utils.ColorWarn), nil, false)
		return
	}

	targetID, err := utils.ParseUserID(target.ID)
	if err != nil {
		return
	}
	if _, err := games.Release(ctx, targetID); err != nil {
		respondStorageFault(s, i, "release", err)
		return
	}
	_ = utils.SendInteractionResponse(s, i,
		utils.CreateBrandedEmbed("Session Released",
			fmt.Sprintf("Cleared %s's session flag.", target.Mention()), utils.ColorWarn), nil, false)
}

func handleReleaseMe(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}
	if _, err := games.Release(context.Background(), userID); err != nil {
		respondStorageFault(s, i, "releaseme", err)
		return
	}
	_ = utils.SendInteractionResponse(s, i,
		utils.CreateBrandedEmbed("Session Released",
			"Your session flag was cleared. Your stake is not refunded.", utils.ColorWarn), nil, true)
}

func respondStorageFault(s *discordgo.Session, i *discordgo.InteractionCreate, op string, err error) {
	log.Printf("economy: %s failed: %v", op, err)
	_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgStorageFault), nil, true)
}

func respondAmountError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, utils.ErrInsufficientFunds):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgInsufficientFunds), nil, true)
	case errors.Is(err, utils.ErrInvalidAmount):
		_ = utils.SendInteractionResponse(s, i,
			utils.ErrorEmbed("Invalid amount. Use a number, a percentage, 'all' or 'half'."), nil, true)
	default:
		respondStorageFault(s, i, "mutation", err)
	}
}

func balanceFields(rec utils.Record) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "Wallet", Value: utils.FormatMoney(rec.Wallet), Inline: true},
		{Name: "Bank", Value: utils.FormatMoney(rec.Bank), Inline: true},
	}
}

func optionString(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func optionUser(s *discordgo.Session, i *discordgo.InteractionCreate, name string) *discordgo.User {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.UserValue(s)
		}
	}
	return nil
}
