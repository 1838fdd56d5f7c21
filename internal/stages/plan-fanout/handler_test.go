// internal/stages/plan-fanout/handler_test.go
package planfanout

import (
	"context"
	"testing"

	"card-advisor/internal/common/logger"
	"card-advisor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	h := NewHandler(DefaultConfig(), logger.NewTestLogger(t))

	tests := []struct {
		name  string
		goals []string
		want  models.FanoutPlan
	}{
		{
			name:  "single travel goal",
			goals: []string{"miles"},
			want:  models.FanoutPlan{"travel", "general"},
		},
		{
			name:  "many goals one category deduped",
			goals: []string{"miles", "airline", "hotel"},
			want:  models.FanoutPlan{"travel", "general"},
		},
		{
			name:  "goal order drives plan order",
			goals: []string{"cashback", "student", "miles"},
			want:  models.FanoutPlan{"cashback", "student", "travel", "general"},
		},
		{
			name:  "unknown goal routes to general",
			goals: []string{"crypto"},
			want:  models.FanoutPlan{"general"},
		},
		{
			name:  "general not duplicated",
			goals: []string{"general", "business"},
			want:  models.FanoutPlan{"general", "business"},
		},
		{
			name:  "no goals routes to general only",
			goals: nil,
			want:  models.FanoutPlan{"general"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := h.Execute(context.Background(), &models.StructuredRequest{Goals: tt.goals})
			assert.Equal(t, tt.want, plan)
		})
	}
}

func TestExecuteIsDeterministic(t *testing.T) {
	h := NewHandler(DefaultConfig(), logger.NewTestLogger(t))
	req := &models.StructuredRequest{Goals: []string{"miles", "cashback", "student"}}

	first := h.Execute(context.Background(), req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, h.Execute(context.Background(), req))
	}
}
