package email

const (
	subjectReport = "Säästölaskelmasi on valmis"
)
