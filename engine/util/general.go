package util

import (
	"encoding/json"
	"os"
)

func FromJson(data string, msg any) bool {
	err := json.Unmarshal([]byte(data), msg)
	if err != nil {
		LogIOError(err.Error())
		return false
	}
	return true
}

func ToJson(msg any) string {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		LogIOError(err.Error())
		return ""
	}
	return string(data)
}

func DoesFileExist(filename string) bool {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return true
}
