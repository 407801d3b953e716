package catalog

import "strconv"

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// defaultProducts is the stocked figure lineup.
var defaultProducts = []Product{
	{ID: 1, Name: "Mai Sakurajima", Series: "Rascal Does Not Dream of Bunny Girl Senpai", Price: 250, Image: "images/mai-sakurajima.png", Category: "figure"},
	{ID: 2, Name: "Suou Yuki", Series: "Tokidoki Bosotto Russia-go de Dereru Tonari no Alya-san", Price: 260, Image: "images/marin-my-dress-up-darling.png", Category: "figure"},
	{ID: 3, Name: "Asuna Yuuki", Series: "Sword Art Online", Price: 270, Image: "images/asuna-sword-art-online.png", Category: "figure"},
	{ID: 4, Name: "Zero Two", Series: "Darling in the FranXX", Price: 290, Image: "images/zero-two-darling-in-the-franxx.png", Category: "figure"},
	{ID: 5, Name: "Alisa Mikhailovna", Series: "Tokidoki Bosotto Russia-go de Dereru Tonari no Alya-san", Price: 300, Image: "images/saber-fate.png", Category: "figure"},
	{ID: 6, Name: "Nezuko Kamado", Series: "Demon Slayer", Price: 280, Image: "images/nezuko-demon-slayer.png", Category: "figure"},
	{ID: 7, Name: "Kaguya Shinomiya", Series: "Kaguya-sama: Love is War", Price: 250, Image: "images/kaguya-love-is-war.png", Category: "figure"},
	{ID: 8, Name: "Nino Nakano", Series: "The Quintessential Quintuplets", Price: 265, Image: "images/nino-nakano.png", Category: "figure"},
	{ID: 9, Name: "Miku Nakano", Series: "The Quintessential Quintuplets", Price: 270, Image: "images/miku-nakano.png", Category: "figure"},
	{ID: 10, Name: "Yotsuba Nakano", Series: "The Quintessential Quintuplets", Price: 275, Image: "images/yotsuba-nakano.png", Category: "figure"},
	{ID: 11, Name: "Itsuki Nakano", Series: "The Quintessential Quintuplets", Price: 280, Image: "images/itsuki-nakano.png", Category: "figure"},
	{ID: 12, Name: "Ichika Nakano", Series: "The Quintessential Quintuplets", Price: 260, Image: "images/ichika-nakano.png", Category: "figure"},
	{ID: 13, Name: "Suma", Series: "Demon Slayer", Price: 250, Image: "images/suma.png", Category: "figure"},
	{ID: 14, Name: "Rio Futaba", Series: "Rascal Does Not Dream of Bunny Girl Senpai", Price: 245, Image: "images/rio-futaba.png", Category: "figure"},
	{ID: 15, Name: "Kaede Azusagawa", Series: "Rascal Does Not Dream of Bunny Girl Senpai", Price: 245, Image: "images/kaede-azusagawa.png", Category: "figure"},
	{ID: 16, Name: "Alya Kujou", Series: "Tokidoki Bosotto Russia-go de Dereru Tonari no Alya-san", Price: 260, Image: "images/alya-kujou.png", Category: "figure"},
	{ID: 17, Name: "Yuki Suou", Series: "Tokidoki Bosotto Russia-go de Dereru Tonari no Alya-san", Price: 260, Image: "images/makio.png", Category: "figure"},
	{ID: 18, Name: "Shinobu Kocho", Series: "Demon Slayer", Price: 280, Image: "images/shinobu-kocho.png", Category: "figure"},
	{ID: 19, Name: "Mitsuri Kanroji", Series: "Demon Slayer", Price: 290, Image: "images/mitsuri-kanroji.png", Category: "figure"},
	{ID: 20, Name: "Tamayo", Series: "Demon Slayer", Price: 275, Image: "images/tamayo.png", Category: "figure"},
}
