// Package words holds the drawing word pools and the hint rendering
// shown to guessers.
package words

import (
	"math/rand"
	"strings"
)

// Default is the built-in pool. Rooms use it unless the host supplies a
// custom list at game start.
var Default = []string{
	"watermelon", "house", "cat", "tree", "car", "pizza", "guitar",
	"mountain", "bicycle", "flower", "rocket", "elephant", "beach", "clock", "rainbow",
	"phone", "book", "computer", "sun", "moon", "star", "cloud", "fish", "bird",

	// Animals
	"giraffe", "snake", "spider", "butterfly", "penguin", "lion", "shark", "crab",
	"turtle", "rabbit", "duck", "pig", "cow", "frog", "bear", "monkey", "mouse",
	"bat", "owl", "bee", "snail", "dinosaur", "dragon", "unicorn", "octopus",
	"dolphin", "whale", "camel", "kangaroo", "zebra", "crocodile", "flamingo",
	"hedgehog", "squirrel", "worm", "ladybug", "jellyfish", "horse", "chicken",

	// Food & drink
	"burger", "ice cream", "banana", "egg", "cheese", "sushi", "pancake", "grapes",
	"donut", "apple", "orange", "strawberry", "cherry", "pineapple", "corn", "carrot",
	"mushroom", "bread", "sandwich", "cookie", "cake", "chocolate", "candy", "lollipop",
	"popcorn", "fries", "hotdog", "taco", "lemon", "pear", "bacon", "cupcake",
	"milk", "coffee", "tea", "juice", "soda", "coconut", "avocado", "potato",

	// Household & objects
	"chair", "lamp", "bed", "toothbrush", "toilet", "broom", "key", "door", "window",
	"table", "sofa", "television", "radio", "candle", "box", "backpack", "suitcase",
	"umbrella", "balloon", "kite", "doll", "teddy bear", "mirror", "comb", "ladder",
	"pillow", "blanket", "vase", "basket", "soap", "sponge", "fan", "fridge",
	"oven", "microwave", "toaster", "blender", "washing machine", "bucket", "mop",
	"shovel", "hammer", "saw", "screwdriver", "scissors", "pencil", "pen", "marker",
	"eraser", "paper", "envelope", "stamp",

	// Clothes & accessories
	"hat", "glasses", "shoe", "sock", "shirt", "pants", "dress", "skirt", "coat",
	"jacket", "scarf", "gloves", "boots", "belt", "tie", "bowtie", "necklace", "ring",
	"watch", "crown", "mask", "helmet", "zipper", "button", "pocket", "sandals",
	"swimsuit", "purse", "wallet",

	// Nature & weather
	"volcano", "ocean", "rain", "snowman", "lightning", "tornado", "cave", "river",
	"lake", "forest", "desert", "island", "city", "park", "fire", "smoke", "wind",
	"planet", "comet", "asteroid", "snowflake", "leaf", "grass", "rose", "cactus",
	"palm tree", "bush", "waterfall", "hill", "field",

	// Technology
	"robot", "camera", "headphones", "battery", "calculator", "keyboard",
	"screen", "laptop", "tablet", "joystick", "gamepad", "printer", "speaker",
	"microphone", "lightbulb", "plug", "wire", "satellite", "telescope", "microscope",

	// Transport
	"bus", "train", "airplane", "boat", "submarine", "helicopter", "skateboard",
	"roller skates", "scooter", "motorcycle", "truck", "van", "taxi", "ambulance",
	"police car", "firetruck", "tractor", "crane", "spaceship", "canoe", "sail",
	"anchor", "wheel", "tire",

	// Body parts
	"eye", "hand", "foot", "nose", "ear", "lips", "mouth", "tooth", "tongue",
	"finger", "thumb", "arm", "leg", "knee", "hair", "beard", "moustache", "bone",
	"skull", "skeleton", "heart", "brain", "stomach", "footprint", "fingerprint",

	// Characters & people
	"ghost", "zombie", "pirate", "ninja", "alien", "king", "queen", "witch", "wizard",
	"vampire", "clown", "doctor", "nurse", "policeman", "fireman", "chef", "artist",
	"baby", "soldier", "superhero", "angel", "devil", "mummy", "elf", "fairy",

	// Sports & hobbies
	"soccer ball", "basketball", "football", "baseball", "tennis racket", "golf club",
	"goal", "trophy", "medal", "whistle", "fishing rod", "paintbrush", "palette",
	"chess piece", "dice", "cards", "piano", "drum", "violin", "trumpet", "flute",
}

// Pool is an immutable set of candidate words for one room.
type Pool struct {
	words []string
}

// NewPool returns a pool over the custom list, falling back to Default
// when the list is empty. Entries are trimmed; blank entries dropped.
func NewPool(custom []string) *Pool {
	cleaned := make([]string, 0, len(custom))
	for _, w := range custom {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		return &Pool{words: Default}
	}
	return &Pool{words: cleaned}
}

// Pick returns a uniformly random word from the pool.
func (p *Pool) Pick(rng *rand.Rand) string {
	return p.words[rng.Intn(len(p.words))]
}

// Len reports how many words the pool holds.
func (p *Pool) Len() int { return len(p.words) }

// Mask renders the blanked hint a guesser sees: every letter becomes an
// underscore token and embedded spaces widen so word boundaries stay
// visible.
func Mask(word string) string {
	var b strings.Builder
	for _, r := range word {
		if r == ' ' {
			b.WriteString("   ")
		} else {
			b.WriteString("_ ")
		}
	}
	return b.String()
}
