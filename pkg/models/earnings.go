package models

type DailyEarning struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
	Total int64  `json:"total"`
}

type EarningsSummary struct {
	TotalCompleted int            `json:"total_completed"`
	TotalEarned    int64          `json:"total_earned"`
	Daily          []DailyEarning `json:"daily"`
}
