package clinical

import (
	"fmt"
	"sort"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// ValidateKbildResponses checks that every one of the 15 questions is answered within
// 1..7 and that no unknown question id is present.
func ValidateKbildResponses(responses map[int]int) error {
	var errs domain.ValidationErrors

	ids := make([]int, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if _, ok := domain.KbildQuestionByID(id); !ok {
			errs.Add("kbild_responses", fmt.Sprintf("unknown question %d", id))
			continue
		}
		v := responses[id]
		if v < domain.KbildMinAnswer || v > domain.KbildMaxAnswer {
			errs.Add("kbild_responses", fmt.Sprintf("question %d: answer %d out of range 1-7", id, v))
		}
	}

	var missing []int
	for _, q := range domain.KbildQuestions {
		if _, ok := responses[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		errs.Add("kbild_responses", fmt.Sprintf("please answer all %d KBILD questions, missing %v", domain.KbildQuestionCount, missing))
	}

	return errs.OrNil()
}

// ComputeKbildScore sums a complete response set. The total lies in 15..105.
func ComputeKbildScore(responses map[int]int) (int, error) {
	if err := ValidateKbildResponses(responses); err != nil {
		return 0, err
	}
	total := 0
	for _, v := range responses {
		total += v
	}
	return total, nil
}
