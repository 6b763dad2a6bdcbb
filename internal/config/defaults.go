package config

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: "~/.local/share/briefcast",
			LogDir:  "~/.local/share/briefcast/logs",
		},
		Feeds: Feeds{
			MaxPerFeed:     20,
			RecencyHours:   24,
			TimeoutSeconds: 20,
		},
		Digest: Digest{
			BaseURL:        "https://api.openai.com/v1/chat/completions",
			TimeoutSeconds: 120,
			ReaderName:     "Reader",
		},
		Script: Script{
			BaseURL:        "http://localhost:1234/v1/chat/completions",
			TimeoutSeconds: 600,
		},
		TTS: TTS{
			PremiumBaseURL:    "https://api.elevenlabs.io",
			PremiumModel:      "eleven_multilingual_v2",
			TimeoutSeconds:    60,
			RequestsPerMinute: 30,
			PremiumVoicesA:    defaultPremiumVoicesA(),
			PremiumVoicesB:    defaultPremiumVoicesB(),
			FallbackVoicesA:   defaultFallbackVoicesA(),
			FallbackVoicesB:   defaultFallbackVoicesB(),
		},
		Audio: Audio{
			SilenceGapMS: 300,
			SampleRate:   44100,
			BitrateKbps:  128,
		},
		Email: Email{
			Host: "smtp.gmail.com",
			Port: 465,
		},
		Library: Library{
			TimeoutSeconds: 30,
		},
		Retention: Retention{
			HistoryDays: 7,
			AudioDays:   10,
			LogDays:     30,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Curated premium voice pools for the two hosts. Narration and news-presenter
// style voices for host A, conversational news voices for host B.
func defaultPremiumVoicesA() []Voice {
	return []Voice{
		{Name: "Brian", ID: "nPczCjzI2devNBz1zQrb"},
		{Name: "Daniel", ID: "onwK4e9ZLuTAKqWW03F9"},
		{Name: "Drew", ID: "29vD33N1CtxCmqQRPOHJ"},
		{Name: "Charlie", ID: "IKne3meq5aSn9XLyUdCD"},
		{Name: "Chris", ID: "iP95p4xoKVk53GoZ742B"},
		{Name: "Bill", ID: "pqHfZKP75CvOlQylNhV4"},
		{Name: "Josh", ID: "TxGEqnHWrfWFTfGW9XjX"},
		{Name: "Liam", ID: "TX3LPaxmHKxFdv7VOQHJ"},
	}
}

func defaultPremiumVoicesB() []Voice {
	return []Voice{
		{Name: "Alice", ID: "Xb7hH8MSUJpSbSDYk0k2"},
		{Name: "Sarah", ID: "EXAVITQu4vr4xnSDxMaL"},
		{Name: "Matilda", ID: "XrExE9yKIg1WjnnlVkGX"},
		{Name: "Rachel", ID: "21m00Tcm4TlvDq8ikWAM"},
		{Name: "Lily", ID: "pFZP5JQG7iQjIQuC4Bku"},
	}
}

func defaultFallbackVoicesA() []Voice {
	return []Voice{
		{Name: "Guy", ID: "en-US-GuyNeural"},
		{Name: "Christopher", ID: "en-US-ChristopherNeural"},
		{Name: "Eric", ID: "en-US-EricNeural"},
		{Name: "Roger", ID: "en-US-RogerNeural"},
		{Name: "Steffan", ID: "en-US-SteffanNeural"},
	}
}

func defaultFallbackVoicesB() []Voice {
	return []Voice{
		{Name: "Jenny", ID: "en-US-JennyNeural"},
		{Name: "Aria", ID: "en-US-AriaNeural"},
		{Name: "Michelle", ID: "en-US-MichelleNeural"},
	}
}
