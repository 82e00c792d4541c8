package bot

// Message templates shown to users. These are static, process-wide,
// read-only data; formatting placeholders are filled with fmt.Sprintf.
const (
	startMessage = "\U0001F44B Hi, I will help you with `geocoding` - finding the coordinates of a place by name."

	helpMessage = "\U0001F5FA I can find the coordinates of a place by its name.\n" +
		"/search - find a place by any text query.\n" +
		"/advanced - find a place by its known details (country, city, street...)."

	searchWelcomeMessage = "\U0001F50D Send any name of the place to start the search."

	advancedWelcomeMessage = "\U0001F539 This is an *advanced way to search place location.* " +
		"It is more accurate, but requires more precise data.\n" +
		"☑️ Choose exactly what you know about the location you are looking for:"

	noResultsMessage = "\U0001F50D No results found."

	foundByQueryMessage = "\U0001F30E I found these places by searching for \"%s\":"

	foundPlacesMessage = "\U0001F30E I found these places:"

	waitForDetailsMessage = "Ok. Send me %s names separated by comma."

	waitForDetailMessage = "Ok. Send me %s name."

	needDetailsMessage = "You need to know at least one of the details of the place."

	badDetailCountMessage = "You need to send all details for each place."

	pageErrorMessage = "⚠️ Couldn't change the page, try again."

	searchFailedMessage = "⚠️ Something went wrong while searching. Please try again later."

	unsupportedMessage = "Unsupported action"
)

// Reply keyboard labels acting as command aliases.
const (
	basicSearchLabel    = "Basic search"
	advancedSearchLabel = "Advanced search"
)
