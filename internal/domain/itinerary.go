package domain

// Itinerary is the validated multi-day travel plan produced by the generation
// provider. Days keeps the model's order; day numbers are not required to be
// unique or contiguous.
type Itinerary struct {
	Days []DayPlan `json:"itinerary"`
}

// DayPlan is one calendar day of the plan.
type DayPlan struct {
	Day        int        `json:"day"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// Activity is a single scheduled item. Time is free-form text, no format is
// enforced.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location"`
}
