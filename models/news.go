package models

import "time"

// NewsItem is one article returned by the news oracle.
type NewsItem struct {
	Title   string `json:"title" bson:"title"`
	Summary string `json:"summary" bson:"summary"`
	Source  string `json:"source" bson:"source"`
	URL     string `json:"url" bson:"url"`
}

// NewsFeed is the cached news document for one normalized location key.
// It is refreshed only on explicit user action; there is no TTL.
type NewsFeed struct {
	LocationID  string     `json:"locationId" bson:"_id"`
	Location    string     `json:"location" bson:"location"`
	Articles    []NewsItem `json:"articles" bson:"articles"`
	LastUpdated time.Time  `json:"lastUpdated" bson:"lastUpdated"`
}

// Prediction is the risk assessment returned by the prediction oracle.
type Prediction struct {
	Risk   string `json:"risk"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

type PredictRiskRequest struct {
	Location string `json:"location" binding:"required" validate:"required,min=2,max=200"`
}

type ScenarioRequest struct {
	Location string `json:"location" binding:"required" validate:"required,min=2,max=200"`
	Scenario string `json:"scenario" binding:"required" validate:"required,min=5,max=1000"`
}
