package search

// DefaultStopwords is the compiled-in elision list for conversational
// queries: Italian articles, pronouns and connectives, a few English ones
// users mix in, and domain-generic legal nouns that match every document.
// Override with search.stopwords_path in the config.
func DefaultStopwords() []string {
	return []string{
		// articles and prepositions
		"il", "lo", "la", "i", "gli", "le", "un", "uno", "una",
		"di", "del", "dello", "della", "dei", "degli", "delle",
		"a", "al", "allo", "alla", "ai", "agli", "alle",
		"da", "dal", "dallo", "dalla", "dai", "dagli", "dalle",
		"in", "nel", "nello", "nella", "nei", "negli", "nelle",
		"su", "sul", "sullo", "sulla", "sui", "sugli", "sulle",
		"con", "per", "tra", "fra",
		// pronouns and connectives
		"io", "tu", "lui", "lei", "noi", "voi", "loro",
		"mi", "ti", "si", "ci", "vi", "ne", "che", "chi", "cui",
		"questo", "questa", "questi", "queste", "quello", "quella",
		"e", "ed", "o", "od", "ma", "se", "non", "anche", "come",
		"dove", "quando", "quale", "quali", "quanto", "cosa",
		"sono", "sei", "è", "siamo", "siete", "ha", "hanno", "ho", "hai",
		"vorrei", "voglio", "puoi", "potresti", "cerco", "cerca", "trova",
		"trovami", "mostrami", "dammi", "esiste", "esistono", "riguardo",
		"riguardanti", "relativo", "relativi", "relativa", "relative",
		// english fillers
		"the", "a", "an", "of", "to", "for", "about", "and", "or",
		"find", "show", "search", "please",
		// domain-generic nouns: present in nearly every record, zero signal
		"sentenza", "sentenze", "caso", "casi", "ricorso", "ricorsi",
		"ordinanza", "ordinanze", "decreto", "decreti", "tribunale",
		"tribunali", "corte", "corti", "giudice", "giudici", "legge",
		"leggi", "articolo", "articoli", "documento", "documenti",
	}
}
