package criteria

import (
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/service/dao"
)

// MatchReport reports whether report satisfies every parameter. Unknown
// parameter names are ignored.
func MatchReport(report *model.Report, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		switch parameter.Name {
		case dao.ParamStatus:
			if !matchValue(report.Status, parameter.Value) {
				return false
			}
		case dao.ParamAlgorithm:
			if !matchValue(report.Algorithm, parameter.Value) {
				return false
			}
		}
	}
	return true
}

func matchValue(value string, expected interface{}) bool {
	switch actual := expected.(type) {
	case string:
		return value == actual
	case []string:
		for _, s := range actual {
			if value == s {
				return true
			}
		}
		return false
	}
	return true
}
