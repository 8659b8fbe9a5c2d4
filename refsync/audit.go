package refsync

import (
	"context"
	"fmt"

	"github.com/jacentio/pawtrail/model"
)

// Problem classifies a referential integrity violation found by Audit.
type Problem string

const (
	// MissingReference: the animal names a walker whose list lacks the animal.
	MissingReference Problem = "missing_reference"

	// DuplicateReference: the walker lists the animal more than once.
	DuplicateReference Problem = "duplicate_reference"

	// DanglingWalker: the animal names a walker that does not exist.
	DanglingWalker Problem = "dangling_walker"

	// StrayReference: the walker lists an animal that is absent or names another walker.
	StrayReference Problem = "stray_reference"
)

// Issue is one violation.
type Issue struct {
	Problem  Problem        `json:"problem"`
	AnimalID int64          `json:"animalId"`
	WalkerID model.WalkerID `json:"walkerId"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: animal %d, walker %s", i.Problem, i.AnimalID, i.WalkerID)
}

// Report is the outcome of an audit.
type Report struct {
	Walkers int     `json:"walkers"`
	Animals int     `json:"animals"`
	Issues  []Issue `json:"issues"`
}

// Consistent reports whether no issues were found.
func (r Report) Consistent() bool {
	return len(r.Issues) == 0
}

// Audit scans both stores and reports every place where a walker's animal id
// list disagrees with the animals table. It never writes.
func (s *Synchronizer) Audit(ctx context.Context) (Report, error) {
	walkers, err := s.walkers.FindAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("audit walkers: %w", err)
	}
	animals, err := s.animals.FindAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("audit animals: %w", err)
	}

	report := Report{Walkers: len(walkers), Animals: len(animals), Issues: []Issue{}}

	// walker id -> animal id -> occurrences
	refs := make(map[model.WalkerID]map[int64]int, len(walkers))
	for _, w := range walkers {
		counts := make(map[int64]int, len(w.AnimalIDs))
		for _, id := range w.AnimalIDs {
			counts[id]++
		}
		refs[w.ID] = counts
	}

	owners := make(map[int64]*model.WalkerID, len(animals))
	for _, a := range animals {
		owners[a.ID] = a.WalkerID
		if a.WalkerID == nil {
			continue
		}
		counts, ok := refs[*a.WalkerID]
		switch {
		case !ok:
			report.Issues = append(report.Issues, Issue{Problem: DanglingWalker, AnimalID: a.ID, WalkerID: *a.WalkerID})
		case counts[a.ID] == 0:
			report.Issues = append(report.Issues, Issue{Problem: MissingReference, AnimalID: a.ID, WalkerID: *a.WalkerID})
		case counts[a.ID] > 1:
			report.Issues = append(report.Issues, Issue{Problem: DuplicateReference, AnimalID: a.ID, WalkerID: *a.WalkerID})
		}
	}

	for _, w := range walkers {
		seen := make(map[int64]bool, len(w.AnimalIDs))
		for _, id := range w.AnimalIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			owner, exists := owners[id]
			if !exists || owner == nil || *owner != w.ID {
				report.Issues = append(report.Issues, Issue{Problem: StrayReference, AnimalID: id, WalkerID: w.ID})
			}
		}
	}

	if !report.Consistent() {
		s.logger.Warn("reference audit found inconsistencies",
			"walkers", report.Walkers,
			"animals", report.Animals,
			"issues", len(report.Issues),
		)
	}

	return report, nil
}

// CheckWalker compares one walker's animal id list with the animals it names.
// It reports duplicate_reference and stray_reference issues only; animals
// missing from the list need a full Audit to find.
func (s *Synchronizer) CheckWalker(ctx context.Context, walkerID model.WalkerID, animalIDs []int64) ([]Issue, error) {
	issues := []Issue{}
	if len(animalIDs) == 0 {
		return issues, nil
	}

	animals, err := s.animals.FindByIDs(ctx, animalIDs)
	if err != nil {
		return nil, fmt.Errorf("check walker %s: %w", walkerID, err)
	}
	owners := make(map[int64]*model.WalkerID, len(animals))
	for _, a := range animals {
		owners[a.ID] = a.WalkerID
	}

	counts := make(map[int64]int, len(animalIDs))
	for _, id := range animalIDs {
		counts[id]++
		if counts[id] > 1 {
			continue
		}
		owner, exists := owners[id]
		if !exists || owner == nil || *owner != walkerID {
			issues = append(issues, Issue{Problem: StrayReference, AnimalID: id, WalkerID: walkerID})
		}
	}
	for _, id := range animalIDs {
		if counts[id] > 1 {
			if owner := owners[id]; owner != nil && *owner == walkerID {
				issues = append(issues, Issue{Problem: DuplicateReference, AnimalID: id, WalkerID: walkerID})
			}
			counts[id] = 0
		}
	}
	return issues, nil
}
