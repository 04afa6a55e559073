// Package score computes point awards for the drawing game.
package score

// DrawerBonus is awarded to the drawer for each distinct player that
// guesses the word during their turn.
const DrawerBonus = 50

// Base returns the order-dependent portion of a correct guess. Order is
// the 1-based position among this round's correct guessers.
func Base(order int) int {
	switch order {
	case 1:
		return 150
	case 2:
		return 125
	case 3:
		return 100
	default:
		pts := 100 - 25*(order-3)
		if pts < 50 {
			pts = 50
		}
		return pts
	}
}

// TimeBonus scales up to 50 extra points by how much of the round was
// left when the guess landed.
func TimeBonus(timeLeft, roundSeconds int) int {
	if roundSeconds <= 0 || timeLeft <= 0 {
		return 0
	}
	if timeLeft > roundSeconds {
		timeLeft = roundSeconds
	}
	return timeLeft * 50 / roundSeconds
}

// Guess is the total award for a correct guess.
func Guess(order, timeLeft, roundSeconds int) int {
	return Base(order) + TimeBonus(timeLeft, roundSeconds)
}
