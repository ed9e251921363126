package domain

// Table names mongo collections
type Table string

const (
	TableCollections   Table = "collections"
	TableNftItems      Table = "nftitems"
	TableListings      Table = "listings"
	TableBids          Table = "bids"
	TableActivities    Table = "activities"
	TableTrackerStates Table = "tracker_states"
)
