package duck

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"dgb-go/utils"

	"github.com/bwmarrin/discordgo"
)

var (
	mgr   *Manager
	board BoardRenderer = EmojiBoard{}
)

// Setup wires the game against a ledger store. Must run before any handler.
func Setup(store utils.Store) {
	mgr = NewManager(store)
}

// GameManager exposes the manager to the economy cog (release commands).
func GameManager() *Manager { return mgr }

// RegisterDuckCommand describes the /duck slash command.
func RegisterDuckCommand() *discordgo.ApplicationCommand {
	modeChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(modes))
	for _, m := range modes {
		modeChoices = append(modeChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%d lanes)", m.Name, m.Lanes),
			Value: m.Name,
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        "duck",
		Description: "Bet on the duck crossing. Cash out before the hazard.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "bet",
				Description: "Bet amount (e.g. 250, 10k, half, all)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "Difficulty tier; omit to pick with buttons",
				Choices:     modeChoices,
			},
		},
	}
}

// HandleDuckCommand starts a game: stake is deducted immediately, then the
// session either starts (mode given) or waits on the mode picker buttons.
func HandleDuckCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}

	var betStr, modeStr string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "bet":
			betStr = opt.StringValue()
		case "mode":
			modeStr = opt.StringValue()
		}
	}

	rec, err := mgr.store.Read(ctx, userID)
	if err != nil {
		log.Printf("duck: ledger read failed for %d: %v", userID, err)
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgStorageFault), nil, true)
		return
	}

	stake, err := utils.ParseAmount(betStr, rec.Wallet)
	if err != nil {
		_ = utils.SendInteractionResponse(s, i,
			utils.ErrorEmbed("Invalid bet. Use a number, a percentage, 'all' or 'half'."), nil, true)
		return
	}

	if modeStr == "" {
		after, err := mgr.PlaceStake(ctx, userID, stake)
		if err != nil {
			respondStakeError(s, i, err, stake, rec.Wallet)
			return
		}
		embed := modePickEmbed(i.Member.User.Username, stake, after.Wallet, after.Bank)
		_ = utils.SendInteractionResponse(s, i, embed, modeComponents(userID), false)
		return
	}

	mode, err := ModeByName(modeStr)
	if err != nil {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Unknown mode."), nil, true)
		return
	}
	sess, err := mgr.Create(ctx, userID, stake, mode)
	if err != nil {
		respondStakeError(s, i, err, stake, rec.Wallet)
		return
	}
	embed := playingEmbed(i.Member.User.Username, sess, sess.frameLocked())
	_ = utils.SendInteractionResponse(s, i, embed, gameComponents(userID, false, true), false)
}

// HandleDuckButton routes the game's button presses (mode pick, Forward,
// Stop). Custom IDs carry the owning player's ID so nobody can drive someone
// else's game.
func HandleDuckButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	cid := i.MessageComponentData().CustomID
	if !strings.HasPrefix(cid, "duck_") {
		return
	}
	presser, err := utils.ParseUserID(i.Member.User.ID)
	if err != nil {
		return
	}

	parts := strings.Split(cid, "_")
	owner, err := utils.ParseUserID(parts[len(parts)-1])
	if err != nil {
		return
	}
	if presser != owner {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgNotYourGame), nil, true)
		return
	}

	switch {
	case strings.HasPrefix(cid, "duck_mode_"):
		handleModePick(s, i, owner, parts[2])
	case strings.HasPrefix(cid, "duck_forward_"):
		handleForward(s, i, owner)
	case strings.HasPrefix(cid, "duck_stop_"):
		handleStop(s, i, owner)
	}
}

func handleModePick(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64, modeName string) {
	mode, err := ModeByName(modeName)
	if err != nil {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Unknown mode."), nil, true)
		return
	}

	sess, err := mgr.StartSession(userID, mode)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSession):
			_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgNoSession), nil, true)
		case errors.Is(err, utils.ErrGameActive):
			_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("This game has already started."), nil, true)
		}
		return
	}

	embed := playingEmbed(i.Member.User.Username, sess, sess.frameLocked())
	_ = utils.UpdateComponentInteraction(s, i, embed, gameComponents(userID, false, true))
}

func handleForward(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64) {
	res, err := mgr.Advance(context.Background(), userID)
	if err != nil {
		respondTransitionError(s, i, err)
		return
	}
	renderStep(s, i, userID, res)
}

func handleStop(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64) {
	res, err := mgr.CashOut(context.Background(), userID)
	if err != nil {
		respondTransitionError(s, i, err)
		return
	}
	renderStep(s, i, userID, res)
}

// renderStep pushes a StepResult to the message. The ledger is already
// settled by this point; a failed Discord edit costs presentation only, so it
// is retried briefly, then logged and dropped.
func renderStep(s *discordgo.Session, i *discordgo.InteractionCreate, userID int64, res *StepResult) {
	var embed *discordgo.MessageEmbed
	var comps []discordgo.MessageComponent

	if res.Status.Terminal() {
		embed = finalEmbed(i.Member.User.Username, res)
		comps = utils.DisableAllComponents(gameComponents(userID, false, false))
	} else {
		embed = stepEmbed(i.Member.User.Username, res)
		comps = gameComponents(userID, false, res.Position < 0)
	}

	if err := utils.AcknowledgeComponentInteraction(s, i); err != nil {
		log.Printf("duck: acknowledge failed for %d: %v", userID, err)
	}
	if err := utils.EditOriginalInteractionWithRetry(s, i, embed, comps, 2); err != nil {
		log.Printf("duck: board render failed for %d: %v", userID, err)
	}
}

func respondStakeError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, stake, wallet int64) {
	switch {
	case errors.Is(err, utils.ErrGameActive):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgGameActive), nil, true)
	case errors.Is(err, utils.ErrInsufficientFunds):
		_ = utils.SendInteractionResponse(s, i, utils.InsufficientFundsEmbed(stake, wallet), nil, true)
	case errors.Is(err, utils.ErrInvalidAmount):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Bet must be greater than 0."), nil, true)
	default:
		log.Printf("duck: stake placement failed: %v", err)
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgStorageFault), nil, true)
	}
}

func respondTransitionError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, ErrAlreadyFinished):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgAlreadyFinished), nil, true)
	case errors.Is(err, ErrNoSession):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgNoSession), nil, true)
	case errors.Is(err, ErrModePending):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Choose a mode first."), nil, true)
	case errors.Is(err, ErrTooEarly):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Move forward at least once before cashing out."), nil, true)
	default:
		log.Printf("duck: transition failed: %v", err)
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed(utils.MsgStorageFault), nil, true)
	}
}

// frameLocked snapshots a fresh session for the initial render.
func (s *Session) frameLocked() *StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame(nil)
}

func modeComponents(userID int64) []discordgo.MessageComponent {
	btns := make([]discordgo.MessageComponent, 0, len(modes))
	for _, m := range modes {
		style := discordgo.PrimaryButton
		if m.Name == "Hard" {
			style = discordgo.DangerButton
		}
		btns = append(btns, utils.CreateButton(
			fmt.Sprintf("duck_mode_%s_%d", strings.ToLower(m.Name), userID), m.Name, style, false))
	}
	return []discordgo.MessageComponent{utils.CreateActionRow(btns...)}
}

func gameComponents(userID int64, allDisabled, stopDisabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{utils.CreateActionRow(
		utils.CreateButton(fmt.Sprintf("duck_forward_%d", userID), "Forward", discordgo.SuccessButton, allDisabled),
		utils.CreateButton(fmt.Sprintf("duck_stop_%d", userID), "Stop", discordgo.DangerButton, allDisabled || stopDisabled),
	)}
}

func modePickEmbed(username string, stake, wallet, bank int64) *discordgo.MessageEmbed {
	var lines []string
	for _, m := range modes {
		mults := make([]string, len(m.Multipliers))
		for idx, v := range m.Multipliers {
			mults[idx] = utils.FormatMultiplier(v)
		}
		lines = append(lines, fmt.Sprintf("**%s** (%d lanes): %s", m.Name, m.Lanes, strings.Join(mults, ", ")))
	}

	embed := utils.CreateBrandedEmbed("Duck Game",
		fmt.Sprintf("%s bet %s. Choose a mode to begin:\n%s", username, utils.FormatMoney(stake), strings.Join(lines, "\n")),
		utils.ColorInfo)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Wallet", Value: utils.FormatMoney(wallet), Inline: true},
		{Name: "Bank", Value: utils.FormatMoney(bank), Inline: true},
	}
	return embed
}

func playingEmbed(username string, sess *Session, res *StepResult) *discordgo.MessageEmbed {
	embed := utils.CreateBrandedEmbed("Duck Game",
		fmt.Sprintf("%s — **%s** mode, %d lanes\n%s",
			username, sess.Mode().Name, res.LaneCount,
			board.RenderBoard(res.Position, res.HazardLane, res.LaneCount)),
		utils.ColorInfo)
	embed.Fields = gameFields(res)
	return embed
}

func stepEmbed(username string, res *StepResult) *discordgo.MessageEmbed {
	embed := utils.CreateBrandedEmbed("Duck Game",
		fmt.Sprintf("%s — the duck moved forward safely!\n%s",
			username, board.RenderBoard(res.Position, res.HazardLane, res.LaneCount)),
		utils.ColorInfo)
	embed.Fields = gameFields(res)
	return embed
}

func finalEmbed(username string, res *StepResult) *discordgo.MessageEmbed {
	var headline string
	color := utils.ColorWin
	switch res.Status {
	case StatusCrashed:
		headline = "The duck got hit by a car! You lost your stake."
		color = utils.ColorLoss
	case StatusFinished:
		headline = "You reached the finish!"
	case StatusCashedOut:
		headline = "You stopped the game and cashed out!"
	}

	embed := utils.CreateBrandedEmbed("Duck Game",
		fmt.Sprintf("%s — %s\n%s",
			username, headline, board.RenderBoard(res.Position, res.HazardLane, res.LaneCount)),
		color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Payout", Value: utils.FormatMoney(res.Payout), Inline: true},
		{Name: "Final Multiplier", Value: utils.FormatMultiplier(res.Multiplier), Inline: true},
		{Name: "Net", Value: utils.DeltaLine(res.Payout, res.Stake), Inline: true},
		{Name: "Wallet", Value: utils.FormatMoney(res.Wallet), Inline: true},
		{Name: "Bank", Value: utils.FormatMoney(res.Bank), Inline: true},
	}
	return embed
}

func gameFields(res *StepResult) []*discordgo.MessageEmbedField {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Bet", Value: utils.FormatMoney(res.Stake), Inline: true},
		{Name: "Multiplier", Value: utils.FormatMultiplier(res.Multiplier), Inline: true},
		{Name: "Current Winnings", Value: utils.FormatMoney(res.Winnings), Inline: true},
	}

	if len(res.Remaining) > 0 {
		mults := make([]string, len(res.Remaining))
		for idx, v := range res.Remaining {
			mults[idx] = utils.FormatMultiplier(v)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Remaining Multipliers", Value: strings.Join(mults, ", "), Inline: false,
		})
	}
	return fields
}
