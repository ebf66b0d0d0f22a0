package store

// SampleStores are the retailers referenced by the sample product catalog.
func SampleStores() []Store {
	lumenURL := "https://casalumen.example"
	lumenLogo := "/media/logos/casa-lumen.png"
	nordicPhone := "+66 2 555 0134"
	nordicLogo := "/media/logos/nordic-home.png"
	return []Store{
		{ID: 1, Name: "Casa Lumen", URL: &lumenURL, Logo: &lumenLogo},
		{ID: 2, Name: "Nordic Home", Phone: &nordicPhone, Logo: &nordicLogo},
	}
}
