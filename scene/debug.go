package scene

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将场景输出为 JSON，便于调试或可视化。
func WriteDebugJSON(s *Scene, path string) error {
	if s == nil {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
