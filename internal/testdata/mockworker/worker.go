package mockworker

import (
	"statbot/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(event model.ModerationEvent) {
	m.Called(event)
}

func (m *Worker) Shutdown() {
	m.Called()
}
