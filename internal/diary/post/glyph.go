// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

// # Mood & Weather

// Mood is how the author felt that day. Values outside the known set are
// stored and returned as-is; they only render with the default glyph.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodExcited  Mood = "excited"
	MoodTired    Mood = "tired"
	MoodAngry    Mood = "angry"
	MoodCalm     Mood = "calm"
	MoodAnxious  Mood = "anxious"
	MoodGrateful Mood = "grateful"
)

// Weather is the weather on the diary date, with the same open-ended rule as [Mood].
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
	WeatherWindy  Weather = "windy"
)

// Default glyphs for unknown or missing values.
const (
	UnknownMoodEmoji    = "😐"
	UnknownWeatherEmoji = "🌤️"
)

// Glyph is one selectable option as the view layer renders it.
type Glyph struct {
	Value string `json:"value"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

var moodGlyphs = []Glyph{
	{Value: string(MoodHappy), Emoji: "😊", Label: "행복"},
	{Value: string(MoodSad), Emoji: "😢", Label: "슬픔"},
	{Value: string(MoodExcited), Emoji: "🤗", Label: "신남"},
	{Value: string(MoodTired), Emoji: "😴", Label: "피곤"},
	{Value: string(MoodAngry), Emoji: "😠", Label: "화남"},
	{Value: string(MoodCalm), Emoji: "😌", Label: "평온"},
	{Value: string(MoodAnxious), Emoji: "😰", Label: "불안"},
	{Value: string(MoodGrateful), Emoji: "🙏", Label: "감사"},
}

var weatherGlyphs = []Glyph{
	{Value: string(WeatherSunny), Emoji: "☀️", Label: "맑음"},
	{Value: string(WeatherCloudy), Emoji: "☁️", Label: "흐림"},
	{Value: string(WeatherRainy), Emoji: "🌧️", Label: "비"},
	{Value: string(WeatherSnowy), Emoji: "❄️", Label: "눈"},
	{Value: string(WeatherWindy), Emoji: "💨", Label: "바람"},
}

// Moods lists the known moods in display order.
func Moods() []Glyph {
	return append([]Glyph(nil), moodGlyphs...)
}

// Weathers lists the known weathers in display order.
func Weathers() []Glyph {
	return append([]Glyph(nil), weatherGlyphs...)
}

func lookup(glyphs []Glyph, value string) (Glyph, bool) {
	for _, glyph := range glyphs {
		if glyph.Value == value {
			return glyph, true
		}
	}
	return Glyph{}, false
}

