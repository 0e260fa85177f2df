package tagging

// DefaultCities is the compiled-in jurisdiction reference list: seats of the
// Italian ordinary courts. Override with search.cities_path in the config.
func DefaultCities() []string {
	return []string{
		"Agrigento", "Alessandria", "Ancona", "Aosta", "Arezzo", "Ascoli Piceno",
		"Asti", "Avellino", "Bari", "Belluno", "Benevento", "Bergamo", "Biella",
		"Bologna", "Bolzano", "Brescia", "Brindisi", "Cagliari", "Caltanissetta",
		"Campobasso", "Caserta", "Catania", "Catanzaro", "Chieti", "Como",
		"Cosenza", "Cremona", "Crotone", "Cuneo", "Enna", "Fermo", "Ferrara",
		"Firenze", "Foggia", "Forlì", "Frosinone", "Genova", "Gorizia",
		"Grosseto", "Imperia", "Isernia", "L'Aquila", "La Spezia", "Latina",
		"Lecce", "Lecco", "Livorno", "Lodi", "Lucca", "Macerata", "Mantova",
		"Massa", "Matera", "Messina", "Milano", "Modena", "Monza", "Napoli",
		"Novara", "Nuoro", "Oristano", "Padova", "Palermo", "Parma", "Pavia",
		"Perugia", "Pesaro", "Pescara", "Piacenza", "Pisa", "Pistoia",
		"Pordenone", "Potenza", "Prato", "Ragusa", "Ravenna", "Reggio Calabria",
		"Reggio Emilia", "Rieti", "Rimini", "Roma", "Rovigo", "Salerno",
		"Sassari", "Savona", "Siena", "Siracusa", "Sondrio", "Taranto",
		"Teramo", "Terni", "Torino", "Trapani", "Trento", "Treviso", "Trieste",
		"Udine", "Varese", "Venezia", "Verbania", "Vercelli", "Verona",
		"Vibo Valentia", "Vicenza", "Viterbo",
	}
}
