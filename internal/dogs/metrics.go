package dogs

import (
	"fmt"
	"math"
)

// FeedingSlot is one meal of the daily schedule.
type FeedingSlot struct {
	Time   string `json:"time"`
	Amount int    `json:"amount"`
}

// NutritionMetrics are daily feeding guidelines derived from a dog profile.
// Amounts are grams, energy is kcal.
type NutritionMetrics struct {
	DailyCalories   int           `json:"daily_calories"`
	Protein         int           `json:"protein"`
	FoodAmount      int           `json:"food_amount"`
	WeeklyAmount    int           `json:"weekly_amount"`
	MonthlyAmount   int           `json:"monthly_amount"`
	FeedingSchedule []FeedingSlot `json:"feeding_schedule"`
}

const (
	// kcal per gram of average dry food
	caloricDensity = 4.0
	firstMealHour  = 8
	feedingWindow  = 12
)

// Metrics computes nutrition guidelines for a validated profile.
func Metrics(p Profile) NutritionMetrics {
	base := 70 * math.Pow(p.Weight, 0.75)

	ageFactor := 1.0
	switch {
	case p.Age < 1:
		ageFactor = 3
	case p.Age > 7:
		ageFactor = 0.8
	}
	activityFactor := 0.8 + 0.04*float64(p.ActivityLevel)

	daily := roundHalfUp(base * ageFactor * activityFactor)
	food := roundHalfUp(float64(daily) / caloricDensity)

	meals := 2
	switch {
	case p.Age < 1:
		meals = 3
	case p.Weight < 5:
		meals = 4
	}
	perMeal := roundHalfUp(float64(food) / float64(meals))
	schedule := make([]FeedingSlot, meals)
	for i := range schedule {
		hour := firstMealHour + i*feedingWindow/meals
		schedule[i] = FeedingSlot{Time: fmt.Sprintf("%02d:00", hour), Amount: perMeal}
	}

	return NutritionMetrics{
		DailyCalories:   daily,
		Protein:         roundHalfUp(1.5 * p.Weight),
		FoodAmount:      food,
		WeeklyAmount:    food * 7,
		MonthlyAmount:   food * 30,
		FeedingSchedule: schedule,
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
