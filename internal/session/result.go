package session

// Result statuses pushed by the monitoring worker.
const (
	StatusDetection = "detection"
	StatusClear     = "clear"
	StatusError     = "error"
)

// Detection is one reported object within a Result.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Position   string  `json:"position"`
}

// Result is one monitoring cycle's output, consumed at most once by a poll.
type Result struct {
	Status           string      `json:"status"`
	Timestamp        float64     `json:"timestamp"`
	Response         string      `json:"response"`
	Detections       []Detection `json:"detections"`
	ObjectsCount     int         `json:"objects_count"`
	Emotion          string      `json:"emotion"`
	EmotionIntensity float64     `json:"emotion_intensity"`
}
