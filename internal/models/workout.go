package models

type Workout struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Coach       string `json:"coach"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type WorkoutExercise struct {
	ID         string `json:"id,omitempty"`
	WorkoutID  string `json:"workout_id"`
	ExerciseID string `json:"exercise_id"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps"`
	Weight     string `json:"weight"`
	OrderNum   int    `json:"order_num"`
}

type WorkoutLog struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"user_id"`
	WorkoutID string  `json:"workout_id"`
	Date      string  `json:"date"`
	Duration  int     `json:"duration"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

type ExerciseSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

type ExerciseLog struct {
	ID           string        `json:"id,omitempty"`
	WorkoutLogID string        `json:"workout_log_id"`
	ExerciseID   string        `json:"exercise_id"`
	Sets         []ExerciseSet `json:"sets"`
	Notes        *string       `json:"notes,omitempty"`
}
