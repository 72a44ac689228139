package model

import "time"

// JerseyWash records that a player took the team jersey home to wash.
type JerseyWash struct {
	ID       int64     `json:"id"`
	PlayerID int64     `json:"player_id"`
	TakenAt  time.Time `json:"taken_at"`
}

// CreateWashPayload is the body of POST /api/washes.
type CreateWashPayload struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

func (p *CreateWashPayload) Validate() error {
	return validate.Struct(p)
}

// ListWashesPayload filters GET /api/washes. A nil PlayerID lists every
// wash. An explicit player_id must be positive.
type ListWashesPayload struct {
	PlayerID *int64 `query:"player_id" json:"-" validate:"omitnil,gt=0"`
}

func (p *ListWashesPayload) Validate() error {
	return validate.Struct(p)
}
