package catalog

type theme struct {
	presetID   string
	presetName string
	presetDesc string
	options    [NumKeys]Option
}

var themes = []theme{
	{
		presetID:   "ghibli",
		presetName: "Ghibli Nostalgia",
		presetDesc: "吉卜力風格：手繪水彩與自然 (Watercolor & Nature)",
		options: [NumKeys]Option{
			Style: {
				ID:          "ghibli_style",
				Label:       "Ghibli Style",
				Description: "吉卜力風格：手繪水彩，溫暖懷舊 (Hand-painted watercolor)",
				Fragment:    "Studio Ghibli inspired, hand-painted watercolor texture, soft brushstrokes, gentle warm lighting, nostalgic anime movie still",
			},
			Structure: {
				ID:          "ghibli_struct",
				Label:       "Winding Path",
				Description: "蜿蜒小徑：連接不同場景 (Dirt path or flying trail)",
				Fragment:    "A winding dirt path through a landscape connected by a fantasy flying machine trail. Split screen comparison layout",
			},
			Elements: {
				ID:          "ghibli_elem",
				Label:       "Nature vs. Confusion",
				Description: "自然精靈 vs 混亂：煤炭精靈、發光樹 (Soot sprites, glowing trees)",
				Fragment:    "Left: Confused villager, dark forest, soot sprites. Right: Happy adventurer, lush meadow, giant glowing magical tree, forest spirits holding coins",
			},
			Color: {
				ID:          "ghibli_color",
				Label:       "Earthy & Soft",
				Description: "大地色系：柔和水彩綠、藍、黃 (Greens, blues, muted yellows)",
				Fragment:    "Earthy greens, soft sky blues, muted yellows, and warm watercolor palette",
				Swatch:      "#bbf7d0,#fef9c3,#bfdbfe",
			},
			Layout: {
				ID:          "ghibli_layout",
				Label:       "Painterly Open",
				Description: "繪畫留白：背景適合疊加文字 (Text over painted backgrounds)",
				Fragment:    "Keep the layout clear for text overlays on top of the painted background",
			},
		},
	},
	{
		presetID:   "pixar",
		presetName: "Pixar 3D Magic",
		presetDesc: "皮克斯風格：3D動畫與高科技 (High-tech & Toys)",
		options: [NumKeys]Option{
			Style: {
				ID:          "pixar_style",
				Label:       "Pixar Style",
				Description: "皮克斯風格：3D動畫，細緻材質 (3D animation, rich textures)",
				Fragment:    "3D rendered animation still, Pixar movie style, rich textures (plastic, metal), cinematic lighting, highly polished, volumetric light",
			},
			Structure: {
				ID:          "pixar_struct",
				Label:       "Conveyor Belt",
				Description: "輸送帶：玩具軌道或未來通道 (Futuristic 3D path/toy track)",
				Fragment:    "A futuristic conveyor belt path that winds through two distinct zones in a 3D environment. Split screen layout",
			},
			Elements: {
				ID:          "pixar_elem",
				Label:       "Toys & Tech",
				Description: "玩具與科技：機器人、金庫 (Robots, vaults, 3D chars)",
				Fragment:    "Left: Stressed stylized 3D character, chaotic room, broken robot toys. Right: Confident 3D character, clean high-tech vault, mechanical money tree",
			},
			Color: {
				ID:          "pixar_color",
				Label:       "Vibrant 3D",
				Description: "鮮豔飽和：冷暖光影對比 (Saturated, warm vs cool)",
				Fragment:    "Vibrant and saturated colors, warm light vs cool shadows, high contrast",
				Swatch:      "#3b82f6,#ef4444,#facc15",
			},
			Layout: {
				ID:          "pixar_layout",
				Label:       "Floating Blocks",
				Description: "懸浮區塊：3D空間中的文字框 (Text floating in 3D space)",
				Fragment:    "Infographic composition with designated areas for text blocks floating in 3D space",
			},
		},
	},
	{
		presetID:   "anime",
		presetName: "Anime Action",
		presetDesc: "鬼滅風格：水墨特效與張力 (Ink & Effects)",
		options: [NumKeys]Option{
			Style: {
				ID:          "demon_style",
				Label:       "Demon Slayer",
				Description: "鬼滅風格：動漫墨線，浮世繪特效 (Anime, ink lines, FX)",
				Fragment:    "Anime still frame, Demon Slayer art style, heavy black ink outlines, Ukiyo-e woodblock print influence, dramatic energy visual effects",
			},
			Structure: {
				ID:          "demon_struct",
				Label:       "Sword Slash",
				Description: "斬擊軌跡：動態刀鋒路徑 (Dynamic trajectory)",
				Fragment:    "A path defined by a dynamic sword slash trajectory separating two opposing forces. Split screen comparison",
			},
			Elements: {
				ID:          "demon_elem",
				Label:       "Heroes vs. Demons",
				Description: "獵鬼人 vs 惡鬼：呼吸法特效 (Samurai, breathing effects)",
				Fragment:    "Left: Troubled samurai, dark aura, menacing demon shadows. Right: Heroic swordsman, water breathing visual effects turning into a golden tree",
			},
			Color: {
				ID:          "demon_color",
				Label:       "High Contrast Ink",
				Description: "強烈對比：黑金配色 (Indigo/Black vs Gold)",
				Fragment:    "High contrast. Deep indigo and black vs vibrant gold, orange, and electric blue",
				Swatch:      "#0f172a,#1d4ed8,#facc15",
			},
			Layout: {
				ID:          "demon_layout",
				Label:       "Scrolls & Drama",
				Description: "卷軸構圖：具張力的日式排版 (Japanese scrolls for text)",
				Fragment:    "Use traditional Japanese scrolls for text boxes, dramatic composition",
			},
		},
	},
	{
		presetID:   "business",
		presetName: "Business Pro",
		presetDesc: "商務簡報：簡潔向量與藍調 (Clean Vector & Blue)",
		options: [NumKeys]Option{
			Style: {
				ID:          "biz_style",
				Label:       "Business Corp",
				Description: "商務簡報：簡潔向量，等距視角 (Clean vector, isometric)",
				Fragment:    "Corporate vector illustration, clean flat design, isometric perspective, professional, high quality vector art, dribbble style",
			},
			Structure: {
				ID:          "biz_struct",
				Label:       "Ascending Steps",
				Description: "上升階梯：成長圖表 (Stairs or growth charts)",
				Fragment:    "A clear ascending staircase structure showing progress from chaos to order. Isometric view",
			},
			Elements: {
				ID:          "biz_elem",
				Label:       "Office & Charts",
				Description: "辦公室：數據圖、筆電 (Suits, laptops, graphs)",
				Fragment:    "Left: Frustrated office worker, tangled wires, red downward charts. Right: Successful executive, organized server racks, ascending green bar charts, floating coins",
			},
			Color: {
				ID:          "biz_color",
				Label:       "Trust Blue",
				Description: "專業信任：藍白配色 (Professional blues and whites)",
				Fragment:    "Professional color palette, trustworthy deep blues, clean whites, and accent success greens",
				Swatch:      "#1e3a8a,#dbeafe,#22c55e",
			},
			Layout: {
				ID:          "biz_layout",
				Label:       "Grid System",
				Description: "模組化網格：乾淨的卡片式排版 (Modular, clean cards)",
				Fragment:    "Clean modular grid layout, white space, card-based text areas",
			},
		},
	},
	{
		presetID:   "chalkboard",
		presetName: "Chalkboard Edu",
		presetDesc: "黑板手繪：教學與塗鴉 (Sketch & Teaching)",
		options: [NumKeys]Option{
			Style: {
				ID:          "chalk_style",
				Label:       "Chalkboard",
				Description: "黑板手繪：粉筆質感 (Hand-drawn chalk on blackboard)",
				Fragment:    "Realistic chalkboard art style, white chalk texture on dark green textured slate, hand-drawn sketch style, rough artistic strokes",
			},
			Structure: {
				ID:          "chalk_struct",
				Label:       "Mind Map",
				Description: "心智圖：流程圖連結 (Connected flowcharts)",
				Fragment:    "A hand-drawn flowchart connection style, arrows connecting different concepts, mind map structure",
			},
			Elements: {
				ID:          "chalk_elem",
				Label:       "Doodles",
				Description: "塗鴉：火柴人、燈泡 (Stick figures, lightbulbs)",
				Fragment:    "Left: Messy scribbles, question marks, rain clouds drawn in chalk. Right: Lightbulbs, treasure chest doodles, growing flower pot drawn in chalk",
			},
			Color: {
				ID:          "chalk_color",
				Label:       "Black & White",
				Description: "黑板配色：深綠底白線 (Dark slate background)",
				Fragment:    "Dark green blackboard background, white and yellow chalk lines",
				Swatch:      "#1e293b,#334155,#475569",
			},
			Layout: {
				ID:          "chalk_layout",
				Label:       "Lesson Plan",
				Description: "課程板書：條列式結構 (Structured lists)",
				Fragment:    "Structured like a classroom lesson plan, clear headings drawn in chalk typography",
			},
		},
	},
	{
		presetID:   "cyber",
		presetName: "Cyber Tech",
		presetDesc: "現代科技：霓虹與暗黑模式 (Neon & Dark Mode)",
		options: [NumKeys]Option{
			Style: {
				ID:          "tech_style",
				Label:       "Modern Tech",
				Description: "現代科技：賽博龐克，玻璃擬態 (Dark mode, neon)",
				Fragment:    "Cyberpunk aesthetic, modern technology, dark mode, neon glowing lines, glassmorphism UI elements, futuristic",
			},
			Structure: {
				ID:          "tech_struct",
				Label:       "Circuit Board",
				Description: "電路板：數位傳輸路徑 (Digital pathways)",
				Fragment:    "A glowing digital circuit board pathway connecting nodes of data",
			},
			Elements: {
				ID:          "tech_elem",
				Label:       "Holograms",
				Description: "全像投影：虛擬數據流 (Digital avatars, tokens)",
				Fragment:    "Left: Glitching red data streams, broken lock icon, warning signs. Right: Secure blue shield, holographic token coins, seamless data flow",
			},
			Color: {
				ID:          "tech_color",
				Label:       "Neon Dark",
				Description: "暗黑霓虹：發光青紫 (Black, Cyan, Magenta)",
				Fragment:    "Dark background, neon cyan and magenta accents, glowing effects",
				Swatch:      "#0f172a,#9333ea,#22d3ee",
			},
			Layout: {
				ID:          "tech_layout",
				Label:       "Dashboard",
				Description: "儀表板：HUD 抬頭顯示器 (HUD style overlay)",
				Fragment:    "Futuristic HUD (Heads Up Display) layout, semi-transparent data panels",
			},
		},
	},
	{
		presetID:   "editorial",
		presetName: "Artistic Editorial",
		presetDesc: "插畫手繪：流行配色與抽象 (Pastel & Abstract)",
		options: [NumKeys]Option{
			Style: {
				ID:          "illu_style",
				Label:       "Trendy Illustration",
				Description: "流行插畫：扁平幾何，曼非斯 (Flat, abstract, Memphis)",
				Fragment:    "Trendy editorial illustration, flat design, abstract shapes, Memphis design elements, noise texture, grain, Behance style",
			},
			Structure: {
				ID:          "illu_struct",
				Label:       "River Flow",
				Description: "流動曲線：有機線條引導 (Organic curves)",
				Fragment:    "An organic flowing river shape guiding the eye from top to bottom",
			},
			Elements: {
				ID:          "illu_elem",
				Label:       "Abstract Metaphor",
				Description: "抽象隱喻：巨手、植物 (Giant hands, plants)",
				Fragment:    "Left: Giant stylized hand tangling threads, withered plants. Right: Giant hand watering a large geometric money plant, abstract coins",
			},
			Color: {
				ID:          "illu_color",
				Label:       "Pastel Pop",
				Description: "柔和粉彩：粉紅、薄荷綠 (Soft pinks, purples, mint)",
				Fragment:    "Soft pastel color palette, coral pink, mint green, and lavender purple",
				Swatch:      "#fbcfe8,#e9d5ff,#99f6e4",
			},
			Layout: {
				ID:          "illu_layout",
				Label:       "Magazine",
				Description: "雜誌排版：大膽字體與留白 (Magazine, bold typography)",
				Fragment:    "Magazine editorial layout, bold typography headers, ample negative space",
			},
		},
	},
}

var categoryMeta = [NumKeys]struct{ Title, Description string }{
	Style:     {Title: "Art Style", Description: "Define the aesthetic."},
	Structure: {Title: "Structure", Description: "Visual flow."},
	Elements:  {Title: "Elements", Description: "Objects & Characters."},
	Color:     {Title: "Color", Description: "Palette & Mood."},
	Layout:    {Title: "Layout", Description: "Composition."},
}

var (
	categories = buildCategories()
	presets    = buildPresets()
)

func buildCategories() [NumKeys]Category {
	var out [NumKeys]Category
	for _, k := range Keys() {
		opts := make([]Option, 0, len(themes))
		for _, t := range themes {
			opts = append(opts, t.options[k])
		}
		out[k] = Category{
			Key:         k,
			Title:       categoryMeta[k].Title,
			Description: categoryMeta[k].Description,
			Options:     opts,
		}
	}
	return out
}

func buildPresets() []Preset {
	out := make([]Preset, 0, len(themes))
	for _, t := range themes {
		out = append(out, Preset{
			ID:          t.presetID,
			Name:        t.presetName,
			Description: t.presetDesc,
			Selection:   t.options,
		})
	}
	return out
}
