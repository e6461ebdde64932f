package models

// Warn is a single warning as stored in the "warns" collection
type Warn struct {
	ID          string `bson:"id" json:"id"`
	Reason      string `bson:"reason" json:"reason"`
	ModeratorID string `bson:"moderatorId" json:"moderatorId"`
	Timestamp   int64  `bson:"timestamp" json:"timestamp"`
}

// WarnsDocument holds every warning of one member in one guild
type WarnsDocument struct {
	GuildID string `bson:"guildId" json:"guildId"`
	UserID  string `bson:"userId" json:"userId"`
	Warns   []Warn `bson:"warns" json:"warns"`
}
