package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/service/dao"
)

func TestMatchReport(t *testing.T) {
	report := &model.Report{Status: model.StatusCompleted, Algorithm: "RR"}
	var testCases = []struct {
		description string
		parameters  []*dao.Parameter
		expect      bool
	}{
		{description: "no parameters", expect: true},
		{description: "status", parameters: []*dao.Parameter{dao.NewParameter(dao.ParamStatus, model.StatusCompleted)}, expect: true},
		{description: "status mismatch", parameters: []*dao.Parameter{dao.NewParameter(dao.ParamStatus, model.StatusFailed)}},
		{description: "status set", parameters: []*dao.Parameter{dao.NewParameter(dao.ParamStatus, model.StatusFailed, model.StatusCompleted)}, expect: true},
		{
			description: "status and algorithm",
			parameters: []*dao.Parameter{
				dao.NewParameter(dao.ParamStatus, model.StatusCompleted),
				dao.NewParameter(dao.ParamAlgorithm, "FCFS"),
			},
		},
		{description: "unknown name", parameters: []*dao.Parameter{dao.NewParameter("Owner", "x")}, expect: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, MatchReport(report, testCase.parameters))
		})
	}
}
