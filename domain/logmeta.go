package domain

import "time"

// LogMeta is the provenance of one decoded chain log. Every document an
// event handler writes carries these fields so a record can always be
// traced back to the emitting transaction.
type LogMeta struct {
	BlockNumber BlockNumber
	BlockTime   time.Time
	TxHash      TxHash
	TxIndex     uint
	LogIndex    uint
	// the emitting contract, lowercased
	ContractAddress Address
	// transaction sender, only populated when the tracker is configured
	// to decode it
	MsgSender Address
}
