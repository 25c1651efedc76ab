package conversation

import "math/rand/v2"

// sessionEmojis label conversation chains in the logs so overlapping
// turns can be told apart at a glance.
var sessionEmojis = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐨", "🐯",
	"🦁", "🐮", "🐷", "🐸", "🐵", "🐔", "🐧", "🐦", "🐤", "🦆",
	"🦅", "🦉", "🦇", "🐺", "🐗", "🐴", "🦄", "🐝", "🐛", "🦋",
	"🐌", "🐞", "🐜", "🦟", "🦗", "🐢", "🐍", "🦎", "🦂", "🦀",
	"🦑", "🐙", "🦞", "🐠", "🐟", "🐡", "🐬", "🦈", "🐳", "🐋",
}

// chooseSessionEmoji picks a fresh emoji for each turn. The choice is
// made per call, never at package initialization, so concurrent turns
// do not all share one label.
func chooseSessionEmoji() string {
	return sessionEmojis[rand.IntN(len(sessionEmojis))]
}
