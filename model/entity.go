package model

// MaxBreedLength is the bound the relational store enforces on Animal.Breed.
const MaxBreedLength = 60

// Walker lives in the document store and owns zero or more animals.
type Walker struct {
	ID   WalkerID `json:"id"`
	Name string   `json:"name"`

	// AnimalIDs references rows in the relational store, in append order.
	AnimalIDs []int64 `json:"animalIds"`
}

// HasAnimals reports whether the walker references any animal.
func (w Walker) HasAnimals() bool {
	return len(w.AnimalIDs) > 0
}

// Animal lives in the relational store and references at most one walker.
type Animal struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Breed    string    `json:"breed"`
	WalkerID *WalkerID `json:"walkerId"`
}
