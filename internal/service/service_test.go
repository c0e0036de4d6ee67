package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"storyfusion/internal/dataset"
	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/repository"
	"storyfusion/internal/repository/sqlrepo"
)

type event struct {
	topic   string
	msgType string
	payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (b *recordingBroadcaster) Broadcast(topic, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{topic, msgType, payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.topic + "/" + e.msgType
	}
	return out
}

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := sqlrepo.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), true)
	require.NoError(t, err)
	s := sqlrepo.NewStore(db)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// testCatalog has two graded practice questions and one test question
func testCatalog() *dataset.Catalog {
	works := []model.Work{
		{ID: 10, Category: "novel", Title: "Ten"},
		{ID: 20, Category: "novel", Title: "Twenty"},
		{ID: 30, Category: "film", Title: "Thirty"},
	}
	practice := []model.FusedQuestion{
		{Kind: model.QuestionKindPractice, Key: 1, IDA: 10, IDB: 20, TitleA: "Ten", TitleB: "Twenty"},
		{Kind: model.QuestionKindPractice, Key: 2, IDA: 20, IDB: 30, TitleA: "Twenty", TitleB: "Thirty"},
	}
	test := []model.FusedQuestion{{Kind: model.QuestionKindTest, Key: 900}}
	return dataset.New(works, practice, test)
}

func intPtr(v int) *int { return &v }

var testLog = logger.Nop()
