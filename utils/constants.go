package utils

import "time"

// General Configuration
const (
	BotColor      = 0x5865F2
	ColorWin      = 0x2ECC71
	ColorLoss     = 0xE74C3C
	ColorInfo     = 0x3498DB
	ColorWarn     = 0xF39C12
	AdminRoleName = "admin"
)

// Economy. All amounts are minor units (cents).
const (
	StartingWallet int64 = 100_000 // $1,000.00
	EarnAmount     int64 = 2_000_000
	EarnCooldown         = time.Hour
	RobCooldown          = 2 * time.Hour

	// Rob roll parameters, percentages of the relevant wallet.
	RobSuccessPercent  int64 = 50
	RobMinSharePercent int64 = 10
	RobMaxSharePercent int64 = 30
	RobFinePercent     int64 = 10
)

// UI Messages
const (
	MsgInsufficientFunds = "You don't have enough funds for that."
	MsgGameActive        = "You already have an active game session."
	MsgAlreadyFinished   = "This game is already finished."
	MsgNotYourGame       = "You cannot control someone else's game."
	MsgNoSession         = "You don't have an active game session."
	MsgStorageFault      = "Something went wrong talking to the bank. Try again."
)

const LeaderboardTTL = 30 * time.Second
