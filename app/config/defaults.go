package config

// Built-in configuration used when no --config-file is given. A handful of
// general football feeds plus Tottenham-focused ones, and the Tottenham
// signal set.
func defaultConfig() *Config {
	return &Config{
		Sources: []Source{
			{Name: "BBC Football", Feed: "https://feeds.bbci.co.uk/sport/football/rss.xml", Domain: "bbc.co.uk"},
			{Name: "The Guardian Football", Feed: "https://www.theguardian.com/football/rss", Domain: "theguardian.com"},
			{Name: "Sky Sports Football", Feed: "https://www.skysports.com/rss/12040/football", Domain: "skysports.com"},
			{Name: "Tottenham Hotspur Official", Feed: "https://www.tottenhamhotspur.com/feeds/news.xml", Domain: "tottenhamhotspur.com"},
			{Name: "The Spurs Web", Feed: "https://www.spurs-web.com/feed/", Domain: "spurs-web.com"},
			{Name: "Football London Spurs", Feed: "https://www.football.london/all-about/tottenham-hotspur/?service=rss", Domain: "football.london"},
			{Name: "TeamTalk Spurs", Feed: "https://www.teamtalk.com/tottenham-hotspur/feed", Domain: "teamtalk.com"},
			{Name: "Hotspur HQ", Feed: "https://hotspurhq.com/feed/", Domain: "hotspurhq.com"},
			{Name: "Football365 Spurs", Feed: "https://www.football365.com/tottenham-hotspur/feed", Domain: "football365.com"},
		},
		Teams: []Team{
			{
				Slug: "tottenham",
				Aliases: []string{
					"tottenham hotspur",
					"tottenham",
					"spurs",
					"thfc",
					"hotspur",
				},
				People: []string{
					"ange postecoglou", "postecoglou",
					"son heung-min", "heung-min son", "sonny",
					"james maddison", "maddison",
					"richarlison",
					"dejan kulusevski", "kulusevski",
					"cristian romero", "romero",
					"destiny udogie", "udogie",
					"micky van de ven", "van de ven",
					"brennan johnson",
					"rodrigo bentancur", "bentancur",
					"giovani lo celso", "lo celso",
					"pape sarr",
					"pierre-emile hojbjerg", "hojbjerg",
					"guglielmo vicario", "vicario",
					"bissouma",
					"dragusin",
					"harry kane",
					"white hart lane", "tottenham hotspur stadium", "north london derby",
				},
				Exclude: []string{
					"arsenal",
					"chelsea",
					"west ham",
					"manchester united", "man united", "man utd",
					"manchester city",
					"liverpool",
					"newcastle",
					"aston villa",
					"everton",
					"premier league roundup",
					"fa cup draw",
					"transfer roundup",
				},
				Domains: []string{
					"tottenhamhotspur.com",
					"spurs-web.com",
					"football.london",
					"teamtalk.com",
					"footballinsider247.com",
					"theboyhotspur.com",
					"hotspurhq.com",
					"football365.com",
				},
			},
		},
	}
}
