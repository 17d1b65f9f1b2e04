// Package errors provides machine-readable rejection codes for the game
// engines. Validation rejections are ordinary error values: the operation is
// a no-op and the message is safe to surface to the player.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Ledger errors
	CodeInsufficientFunds Code = "LEDGER_INSUFFICIENT_FUNDS"
	CodeUnknownCurrency   Code = "LEDGER_UNKNOWN_CURRENCY"

	// Chest errors
	CodeEmptyCatalog Code = "CHEST_EMPTY_CATALOG"
	CodeInvalidChest Code = "CHEST_INVALID_DEFINITION"

	// Crafting errors
	CodeNotEnoughDuplicates Code = "CRAFT_NOT_ENOUGH_DUPLICATES"
	CodeMaxRarity           Code = "CRAFT_MAX_RARITY"
	CodeNoUpgradePool       Code = "CRAFT_NO_UPGRADE_POOL"

	// Battle errors
	CodeInvalidDeck       Code = "BATTLE_INVALID_DECK"
	CodeNotPlayerTurn     Code = "BATTLE_NOT_PLAYER_TURN"
	CodeNotOpponentTurn   Code = "BATTLE_NOT_OPPONENT_TURN"
	CodeBattleOver        Code = "BATTLE_OVER"
	CodeCardNotInHand     Code = "BATTLE_CARD_NOT_IN_HAND"
	CodeBattleNotStarted  Code = "BATTLE_NOT_STARTED"
	CodeBattleWrongStatus Code = "BATTLE_WRONG_STATUS"

	// Raid errors
	CodeDistrictLocked  Code = "RAID_DISTRICT_LOCKED"
	CodeInvalidTeam     Code = "RAID_INVALID_TEAM"
	CodeRaidOver        Code = "RAID_OVER"
	CodeCardOnCooldown  Code = "RAID_CARD_ON_COOLDOWN"
	CodeUnknownDistrict Code = "RAID_UNKNOWN_DISTRICT"

	// Shop errors
	CodeRealMoneyStubbed Code = "SHOP_REAL_MONEY_STUBBED"
	CodeUnknownPack      Code = "SHOP_UNKNOWN_PACK"
	CodeUnknownListing   Code = "SHOP_UNKNOWN_LISTING"
	CodeInvalidPrice     Code = "SHOP_INVALID_PRICE"
	CodeCardNotOwned     Code = "SHOP_CARD_NOT_OWNED"
)

// Error pairs a rejection code with a player-facing message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// E builds a coded error with a formatted message.
func E(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the code from an error, or CodeUnknown.
func CodeOf(err error) Code {
	var ge *Error
	if stderrors.As(err, &ge) {
		return ge.Code
	}
	return CodeUnknown
}

// IsRejection reports whether err is a player-facing validation rejection
// rather than an internal failure.
func IsRejection(err error) bool {
	var ge *Error
	return stderrors.As(err, &ge)
}
