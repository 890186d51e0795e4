package hub

import "time"

// SeedBookmarks is the starting set of links.
func SeedBookmarks() []Bookmark {
	return []Bookmark{
		{ID: "1", Title: "Google Search", URL: "https://google.com", Category: "www", ClickCount: 42},
		{ID: "2", Title: "YouTube", URL: "https://youtube.com", Category: "Video", ClickCount: 38},
		{ID: "3", Title: "GitHub", URL: "https://github.com", Category: "Learning", ClickCount: 25},
		{ID: "4", Title: "Unsplash", URL: "https://unsplash.com", Category: "Photo", ClickCount: 12},
		{ID: "5", Title: "Kindle", URL: "https://read.amazon.com", Category: "e-book", ClickCount: 15},
		{ID: "6", Title: "Stack Overflow", URL: "https://stackoverflow.com", Category: "www", ClickCount: 29},
		{ID: "7", Title: "Spotify", URL: "https://open.spotify.com", Category: "Video", ClickCount: 19},
	}
}

// SeedTodos is the starting to-do list.
func SeedTodos(now time.Time) []Todo {
	ms := now.UnixMilli()
	return []Todo{
		{ID: "t1", Text: "Wire the calendar export", Category: CategoryToday, CreatedAt: ms},
		{ID: "t2", Text: "Clean up the downloads folder", Category: CategoryToday, Completed: true, CreatedAt: ms - 86400000},
		{ID: "t3", Text: "Weekly groceries", Category: CategoryTomorrow, CreatedAt: ms},
		{ID: "t4", Text: "Evening cardio (45 min)", Category: CategoryToday, RemindMe: true, ReminderTime: "19:30", CreatedAt: ms},
		{ID: "t5", Text: "Review monthly finances", Category: CategoryThisWeek, CreatedAt: ms},
	}
}

// SeedEvents is the starting calendar, dated relative to now.
func SeedEvents(now time.Time) []CalendarEvent {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}
	nextMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7

	return []CalendarEvent{
		{ID: "e1", Title: "Dashboard review", Date: day(0), Time: "11:00", Person: "Self", Location: "Office",
			Description: "Check that every link still works."},
		{ID: "e2", Title: "Team sync", Date: day(1), Time: "09:30", Person: "Dev team",
			Link: "https://meet.google.com/abc-def-ghi", Location: "Online", RemindMe: true, ReminderMinutes: Minutes(10)},
		{ID: "e3", Title: "Doctor's appointment", Date: day(nextMonday), Time: "15:00", Person: "Specialist",
			Phone: "500-600-700", Location: "Medical centre"},
		{ID: "e4", Title: "Birthday dinner", Date: day(0), Time: "20:00", Person: "Friends", Location: "Old town"},
	}
}
