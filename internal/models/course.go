package models

import "time"

// Course is the authored course as returned by the content API,
// with instructor, categories and the module -> lesson tree already resolved.
type Course struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	Level       string      `json:"level"`
	Price       float64     `json:"price"`
	Instructor  *Instructor `json:"instructor"`
	Categories  []Category  `json:"categories"`
	Modules     []Module    `json:"modules"`
	Resources   []Resource  `json:"resources"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Instructor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
	ImageURL string `json:"imageUrl"`
}

type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Module (chapter) groups lessons in display order.
type Module struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

type Lesson struct {
	Key             string `json:"key"`
	Title           string `json:"title"`
	VideoURL        string `json:"videoUrl"`
	DurationMinutes int    `json:"durationMinutes"`
	IsPreview       bool   `json:"isPreview"`
}

// Resource is a downloadable attachment. DriveFileID is served through the PDF proxy.
type Resource struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	FileURL     string `json:"fileUrl"`
	DriveFileID string `json:"driveFileId"`
}

// Lessons flattens the module tree in display order.
func (c *Course) Lessons() []Lesson {
	var out []Lesson
	for _, m := range c.Modules {
		out = append(out, m.Lessons...)
	}
	return out
}

func (c *Course) LessonCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

func (c *Course) TotalMinutes() int {
	total := 0
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			total += l.DurationMinutes
		}
	}
	return total
}

func (c *Course) HasLesson(key string) bool {
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if l.Key == key {
				return true
			}
		}
	}
	return false
}
