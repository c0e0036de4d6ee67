package service

// Websocket topics and event types
const (
	TopicAnswers     = "answers"
	TopicPredictions = "predictions"
	TopicNouns       = "nouns"

	EventAnswerSubmitted     = "answer_submitted"
	EventPredictionsUploaded = "predictions_uploaded"
	EventPredictionsDeleted  = "predictions_deleted"
	EventNounsImported       = "nouns_imported"
	EventNounsCleared        = "nouns_cleared"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Broadcast(topic string, msgType string, payload interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, interface{}) {}
