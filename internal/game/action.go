package game

// Action is the closed set of transitions the reducer accepts. Session
// events (UserEntered, UserExit) are injected by the session host on
// connect and disconnect; game events originate from participants. The
// host resolves the acting participant's identity before dispatch, so
// remote input can never act as someone else.
type Action interface {
	actor() string
}

// UserEntered seats a freshly constructed participant
type UserEntered struct {
	User Participant
}

// UserExit removes the participant with the given id
type UserExit struct {
	UserID string
}

// Deal starts a new hand, collecting the ante from every participant
type Deal struct {
	UserID string
	Ante   int
}

// Bet opens or adds to the acting participant's street bet
type Bet struct {
	UserID string
	Amount int
}

// Call matches the current street bet
type Call struct {
	UserID string
}

// Raise calls the current street bet plus a positive increment
type Raise struct {
	UserID string
	Amount int
}

// Fold removes the acting participant from contention for the pot
type Fold struct {
	UserID string
}

// AllIn commits the acting participant's entire balance
type AllIn struct {
	UserID string
}

// Advance moves the hand to the next street, resolving the showdown after
// the river and resetting the table after the showdown
type Advance struct {
	UserID string
}

// SeeHand records the acting participant's hole cards as a private log
// entry visible only to them
type SeeHand struct {
	UserID string
}

func (a UserEntered) actor() string { return a.User.ID }
func (a UserExit) actor() string    { return a.UserID }
func (a Deal) actor() string        { return a.UserID }
func (a Bet) actor() string         { return a.UserID }
func (a Call) actor() string        { return a.UserID }
func (a Raise) actor() string       { return a.UserID }
func (a Fold) actor() string        { return a.UserID }
func (a AllIn) actor() string       { return a.UserID }
func (a Advance) actor() string     { return a.UserID }
func (a SeeHand) actor() string     { return a.UserID }
