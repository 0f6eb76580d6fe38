package generator

const (
	letters = "abcdefghijklmnopqrstuvwxyz"
	digits  = "0123456789"
	symbols = "!@#$%^&*()"
)

// HomeRowWords only use keys from the home row.
var HomeRowWords = []string{
	"asdf", "jkl;", "dad", "sad", "lad", "fall", "flask", "half", "ask", "all",
	"has", "had", "glass", "sash", "jag", "add", "salad", "fad", "gash", "flag",
}

// TopRowWords only use keys from the top row.
var TopRowWords = []string{
	"top", "pot", "toy", "tree", "try", "type", "write", "quit", "power", "quiet",
	"were", "we", "you", "your", "tier", "row", "rope",
}

// BottomRowWords lean on the bottom row.
var BottomRowWords = []string{
	"zoo", "van", "ban", "man", "cab", "can", "mix", "zen", "zero", "moon", "bomb", "vac",
}

// CommonWords are frequent short English words.
var CommonWords = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i", "it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she", "or", "an", "will", "my", "one", "all", "would", "there",
	"their", "what", "so", "up", "out", "if", "about", "who", "get", "which", "go", "me", "when", "make", "can", "like", "time", "no",
	"just", "him", "know", "take", "people", "into", "year", "your", "good", "some", "could", "them", "see", "other", "than", "then",
	"now", "look", "only", "come", "its", "over", "think", "also", "back", "after", "use", "two", "how", "our", "work", "first", "well",
	"way", "even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
}

// Sentences are pangrams and near-pangrams for full practice.
var Sentences = []string{
	"The quick brown fox jumps over the lazy dog.",
	"Pack my box with five dozen liquor jugs.",
	"Sphinx of black quartz, judge my vow.",
	"Two driven jocks help fax my big quiz.",
	"The five boxing wizards jump quickly.",
	"How vexingly quick daft zebras jump!",
	"Bright vixens jump; dozy fowl quack.",
	"Jinxed wizards pluck ivy from the big quilt.",
	"Crazy Fredrick bought many very exquisite opal jewels.",
	"We promptly judged antique ivory buckles for the next prize.",
	"Jaded zombies acted quaintly but kept driving their oxen forward.",
	"A wizard's job is to vex chumps quickly in fog.",
	"Watch 'Jeopardy!', Alex Trebek's fun TV quiz game.",
	"By Jove, my quick study of lexicography won a prize!",
	"Woven silk pyjamas exchanged for quarters.",
}
