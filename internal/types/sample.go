package types

// SampleDocument returns the built-in starter document used by new sessions.
func SampleDocument() *CVDocument {
	return &CVDocument{
		PersonalInfo: PersonalInfo{
			Name:     "John Doe",
			Title:    NewLocalized("Ingeniero de Software", "Software Engineer"),
			Email:    "john.doe@example.com",
			Phone:    "+1 555 123 4567",
			Location: "United States",
			LinkedIn: "linkedin.com/in/johndoe",
			GitHub:   "github.com/johndoe",
		},
		Profile: NewLocalized(
			"Ingeniero de software con 5+ años de experiencia en desarrollo full-stack y arquitectura de sistemas. Especializado en crear aplicaciones escalables y mantenibles usando tecnologías modernas. Experiencia en liderar equipos y entregar proyectos de alta calidad.",
			"Software engineer with 5+ years of experience in full-stack development and system architecture. Specialized in building scalable and maintainable applications using modern technologies. Experience leading teams and delivering high-quality projects.",
		),
		Skills: SkillSetOf(
			SkillCategory{Name: "Frontend", Skills: []string{"React", "TypeScript", "HTML", "CSS", "Tailwind CSS"}},
			SkillCategory{Name: "Backend", Skills: []string{"Node.js", "Python", "Java", "REST APIs", "GraphQL"}},
			SkillCategory{Name: "Database", Skills: []string{"PostgreSQL", "MongoDB", "Redis", "MySQL"}},
			SkillCategory{Name: "DevOps", Skills: []string{"Docker", "Kubernetes", "AWS", "CI/CD", "GitHub Actions"}},
			SkillCategory{Name: "Tools", Skills: []string{"Git", "VS Code", "Jira", "Figma"}},
		),
		Experience: NewLocalized(
			[]ExperienceEntry{
				{
					Title:      "Ingeniero de Software Senior",
					Company:    "Tech Company Inc",
					CompanyURL: "https://example.com",
					Period:     "Enero 2022 — Actualidad",
					Responsibilities: []string{
						"Desarrollé aplicaciones web escalables usando React y Node.js, sirviendo a 100K+ usuarios",
						"Lideré equipo de 5 desarrolladores en proyectos de alto impacto",
						"Implementé arquitectura de microservicios reduciendo tiempo de respuesta 40%",
						"Mentoricé desarrolladores junior en mejores prácticas de código",
					},
				},
				{
					Title:      "Desarrollador Full Stack",
					Company:    "Software Solutions LLC",
					CompanyURL: "https://example.com",
					Period:     "Marzo 2020 — Diciembre 2021",
					Responsibilities: []string{
						"Construí APIs RESTful usando Python y FastAPI",
						"Diseñé e implementé bases de datos PostgreSQL optimizadas",
						"Colaboré con equipos de diseño para crear interfaces de usuario intuitivas",
						"Automaticé procesos de despliegue usando Docker y Kubernetes",
					},
				},
				{
					Title:      "Desarrollador Junior",
					Company:    "StartUp XYZ",
					CompanyURL: "https://example.com",
					Period:     "Junio 2019 — Febrero 2020",
					Responsibilities: []string{
						"Desarrollé componentes frontend usando React y TypeScript",
						"Participé en revisiones de código y sesiones de pair programming",
						"Implementé pruebas unitarias y de integración",
						"Contribuí a la documentación técnica del proyecto",
					},
				},
			},
			[]ExperienceEntry{
				{
					Title:      "Senior Software Engineer",
					Company:    "Tech Company Inc",
					CompanyURL: "https://example.com",
					Period:     "January 2022 — Present",
					Responsibilities: []string{
						"Developed scalable web applications using React and Node.js, serving 100K+ users",
						"Led team of 5 developers on high-impact projects",
						"Implemented microservices architecture reducing response time by 40%",
						"Mentored junior developers on code best practices",
					},
				},
				{
					Title:      "Full Stack Developer",
					Company:    "Software Solutions LLC",
					CompanyURL: "https://example.com",
					Period:     "March 2020 — December 2021",
					Responsibilities: []string{
						"Built RESTful APIs using Python and FastAPI",
						"Designed and implemented optimized PostgreSQL databases",
						"Collaborated with design teams to create intuitive user interfaces",
						"Automated deployment processes using Docker and Kubernetes",
					},
				},
				{
					Title:      "Junior Developer",
					Company:    "StartUp XYZ",
					CompanyURL: "https://example.com",
					Period:     "June 2019 — February 2020",
					Responsibilities: []string{
						"Developed frontend components using React and TypeScript",
						"Participated in code reviews and pair programming sessions",
						"Implemented unit and integration tests",
						"Contributed to project technical documentation",
					},
				},
			},
		),
		Education: NewLocalized(
			[]EducationEntry{
				{Degree: "Licenciatura en Ciencias de la Computación", Institution: "Universidad Estatal", Period: "2015 - 2019"},
				{Degree: "Certificación en Desarrollo Web", Institution: "Instituto Tecnológico", Period: "2014 - 2015"},
			},
			[]EducationEntry{
				{Degree: "Bachelor of Computer Science", Institution: "State University", Period: "2015 - 2019"},
				{Degree: "Web Development Certification", Institution: "Technical Institute", Period: "2014 - 2015"},
			},
		),
		Certifications: []string{
			"AWS Certified Solutions Architect",
			"Google Cloud Professional",
			"Certified Kubernetes Administrator",
		},
	}
}
