package usecases

import "github.com/planora/backoffice/internal/core/domain"

// fallbackDestinations is served when the catalog table is empty.
var fallbackDestinations = []domain.Destination{
	{Slug: "london", Name: "London", City: "London", Country: "United Kingdom", EventCount: 3889,
		ImageURL: "https://images.unsplash.com/photo-1473951574080-01fe45ec8643?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "istanbul", Name: "Istanbul", City: "Istanbul", Country: "Turkey", EventCount: 2737,
		ImageURL: "https://images.unsplash.com/photo-1524231757912-21f4fe3a7200?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "paris", Name: "Paris", City: "Paris", Country: "France", EventCount: 3880,
		ImageURL: "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "hamburg", Name: "Hamburg", City: "Hamburg", Country: "Germany", EventCount: 365,
		ImageURL: "https://wallpapercave.com/wp/wp1996095.jpg?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "amsterdam", Name: "Amsterdam", City: "Amsterdam", Country: "Netherlands", EventCount: 1895,
		ImageURL: "https://images.unsplash.com/photo-1504274066651-8d31a536b11a?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "lisbon", Name: "Lisbon", City: "Lisbon", Country: "Portugal", EventCount: 3828,
		ImageURL: "https://images.unsplash.com/photo-1504275107627-0c2ba7a43dba?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "rome", Name: "Rome", City: "Rome", Country: "Italy", EventCount: 6778,
		ImageURL: "https://thumbs.dreamstime.com/b/beautiful-view-ruins-colosseum-rome-italy-june-june-69176135.jpg?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "athens", Name: "Athens", City: "Athens", Country: "Greece", EventCount: 3349,
		ImageURL: "https://images.unsplash.com/photo-1549632891-a0bea6d0355b?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "berlin", Name: "Berlin", City: "Berlin", Country: "Germany", EventCount: 894,
		ImageURL: "https://wallpaperaccess.com/full/8175051.jpg?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "barcelona", Name: "Barcelona", City: "Barcelona", Country: "Spain", EventCount: 2509,
		ImageURL: "https://periodicadventures.com/wp-content/uploads/2024/10/Barcelona-Spain-from-Park-Guell-1024x683.jpg?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "venice", Name: "Venice", City: "Venice", Country: "Italy", EventCount: 1762,
		ImageURL: "https://deih43ym53wif.cloudfront.net/venice-italy-shutterstock_759608542_0bc86b2a60.jpeg?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "malaga", Name: "Málaga", City: "Málaga", Country: "Spain", EventCount: 823,
		ImageURL: "https://images.unsplash.com/photo-1520962922320-2038eebab146?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "vienna", Name: "Vienna", City: "Vienna", Country: "Austria", EventCount: 1013,
		ImageURL: "https://thumbs.dreamstime.com/b/town-hall-vienna-11409718.jpg?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "porto", Name: "Porto", City: "Porto", Country: "Portugal", EventCount: 1166,
		ImageURL: "https://media-cdn.tripadvisor.com/media/attractions-splice-spp-720x480/12/e7/8b/62.jpg?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "stockholm", Name: "Stockholm", City: "Stockholm", Country: "Sweden", EventCount: 509,
		ImageURL: "https://images.unsplash.com/photo-1469474968028-56623f02e42e?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "monte-carlo", Name: "Monte Carlo", City: "Monte Carlo", Country: "Monaco", EventCount: 115,
		ImageURL: "https://images.unsplash.com/photo-1519046904884-53103b34b206?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "prague", Name: "Prague", City: "Prague", Country: "Czech Republic", EventCount: 1820,
		ImageURL: "https://images.unsplash.com/photo-1519677100203-a0e668c92439?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "dubai", Name: "Dubai", City: "Dubai", Country: "United Arab Emirates", EventCount: 2410,
		ImageURL: "https://images.unsplash.com/photo-1527409335569-f0e5c91fa707?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "singapore", Name: "Singapore", City: "Singapore", Country: "Singapore", EventCount: 1310,
		ImageURL: "https://images.unsplash.com/photo-1504274066651-8d31a536b11a?auto=format&fit=crop&w=1200&q=80"},
	{Slug: "new-york", Name: "New York", City: "New York", Country: "United States", EventCount: 4210,
		ImageURL: "https://images.unsplash.com/photo-1469474968028-56623f02e42e?auto=format&fit=crop&w=1200&q=80"},
}

var (
	fallbackPackageTypes = []string{"ADVENTURE", "HONEYMOON", "FAMILY", "CITY BREAK", "LUXURY"}
	fallbackHotels       = []string{"Grand Palace Hotel", "Sunset Resort", "Central Plaza", "Skyline Suites", "Harbour View Hotel"}
	fallbackFlights      = []string{"PL124452", "PL786820", "PL534290", "PL908733", "PL443211"}
)

// FallbackDestinations returns a copy of the built-in catalog.
func FallbackDestinations() []domain.Destination {
	out := make([]domain.Destination, len(fallbackDestinations))
	copy(out, fallbackDestinations)
	return out
}
