package export

import (
	"encoding/json"
	"os"

	"github.com/spigell/talentscout/internal/screening"
)

// ToTmpJSON dumps the run results into a temporary json file and returns
// its name.
func ToTmpJSON(result *screening.Result) (string, error) {
	file, err := os.CreateTemp("", "screening_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", err
	}

	return file.Name(), nil
}
