// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signal

// englishStopwords break candidate phrases. The list follows the common
// English function-word lists used by keyword extractors.
var englishStopwords = []string{
	"a", "about", "above", "across", "after", "afterwards", "again", "against",
	"all", "almost", "alone", "along", "already", "also", "although", "always",
	"am", "among", "amongst", "an", "and", "another", "any", "anyhow", "anyone",
	"anything", "anyway", "anywhere", "are", "around", "as", "at", "be",
	"became", "because", "become", "becomes", "becoming", "been", "before",
	"beforehand", "behind", "being", "below", "beside", "besides", "between",
	"beyond", "both", "but", "by", "can", "cannot", "could", "did", "do",
	"does", "doing", "done", "down", "due", "during", "each", "either", "else",
	"elsewhere", "enough", "etc", "even", "ever", "every", "everyone",
	"everything", "everywhere", "except", "few", "for", "former", "formerly",
	"from", "further", "had", "has", "have", "having", "he", "hence", "her",
	"here", "hereafter", "hereby", "herein", "hers", "herself", "him",
	"himself", "his", "how", "however", "i", "if", "in", "indeed", "into",
	"is", "it", "its", "itself", "just", "last", "latter", "least", "less",
	"made", "make", "many", "may", "me", "meanwhile", "might", "more",
	"moreover", "most", "mostly", "much", "must", "my", "myself", "namely",
	"neither", "never", "nevertheless", "next", "no", "nobody", "none", "nor",
	"not", "nothing", "now", "nowhere", "of", "off", "often", "on", "once",
	"one", "only", "onto", "or", "other", "others", "otherwise", "our", "ours",
	"ourselves", "out", "over", "own", "per", "perhaps", "please", "quite",
	"rather", "really", "same", "seem", "seemed", "seeming", "seems", "several",
	"she", "should", "since", "so", "some", "somehow", "someone", "something",
	"sometime", "sometimes", "somewhere", "still", "such", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "thence", "there",
	"thereafter", "thereby", "therefore", "therein", "thereupon", "these",
	"they", "this", "those", "though", "through", "throughout", "thru", "thus",
	"to", "together", "too", "toward", "towards", "under", "until", "up",
	"upon", "us", "use", "used", "using", "very", "via", "was", "we", "well",
	"were", "what", "whatever", "when", "whence", "whenever", "where",
	"whereas", "whereby", "wherein", "whereupon", "wherever", "whether",
	"which", "while", "whither", "who", "whoever", "whole", "whom", "whose",
	"why", "will", "with", "within", "without", "would", "yet", "you", "your",
	"yours", "yourself", "yourselves",
}

// academicStopwords are words common to nearly every paper that never name
// a theme on their own.
var academicStopwords = []string{
	"abstract", "al", "approach", "article", "based", "case", "cases",
	"conclusion", "conclusions", "demonstrate", "demonstrated", "describe",
	"described", "et", "eq", "fig", "figure", "figures", "finally", "first",
	"found", "furthermore", "given", "high", "higher", "important",
	"introduction", "investigate", "investigated", "key", "large", "low",
	"lower", "main", "new", "novel", "obtained", "paper", "present",
	"presented", "previous", "propose", "proposed", "provide", "provides",
	"recent", "recently", "reported", "respectively", "result", "results",
	"second", "section", "show", "showed", "shown", "shows", "significant",
	"significantly", "similar", "study", "studies", "supplementary", "table",
	"third", "various", "work", "works",
}
