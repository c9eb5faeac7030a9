package logging

import (
	"github.com/sirupsen/logrus"
)

// FieldsHook adds static fields to every entry. Fields already set on the
// entry win; empty values are skipped.
type FieldsHook struct {
	fields logrus.Fields
}

func NewFieldsHook(fields logrus.Fields) *FieldsHook {
	static := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		static[k] = v
	}
	return &FieldsHook{fields: static}
}

func (h *FieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *FieldsHook) Fire(entry *logrus.Entry) error {
	if entry.Data == nil {
		entry.Data = make(logrus.Fields, len(h.fields))
	}
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
