package resumes

import "fmt"

const structuredPromptTemplate = `Analyze the resume text and return a JSON object with the following structure:
{
    "name": "string",
    "email": "string",
    "phone": "string",
    "location": "string (City, State)",
    "summary": "string (brief professional summary)",
    "skills": ["array of skills"],
    "experience": [
        {
            "title": "string (job title)",
            "company": "string (company name)",
            "date": "string (employment period)",
            "description": "string (job description)"
        }
    ],
    "education": [
        {
            "degree": "string (degree name)",
            "institution": "string (school/university name)",
            "date": "string (education period)",
            "gpa": "string (if available)"
        }
    ],
    "projects": [
        {
            "name": "string (project name)",
            "description": "string (project details)",
            "technologies": ["array of technologies used"]
        }
    ],
    "certifications": ["array of certification strings"],
    "languages": ["array of language strings"],
    "social": {
        "linkedin": "string (LinkedIn URL if available)",
        "github": "string (GitHub URL if available)",
        "twitter": "string (Twitter URL if available)",
        "leetcode": "string (LeetCode URL if available)",
        "more_info": "string (other profile URL if available)"
    },
    "achievements": ["array of achievement strings"],
    "leadership": [
        {
            "role": "string (leadership role)",
            "organization": "string (organization name)",
            "date": "string (period)",
            "achievements": ["array of achievement strings"]
        }
    ]
}

Instructions:
1. Extract all information exactly as shown in the structure above
2. Use empty arrays [] for missing array fields
3. Use null for missing object fields
4. Maintain the exact field names as shown
5. Do not ask questions or add explanatory text
6. Extract information only from the provided text
7. Understand correct information and split based on labels (experience and projects)

Resume text:
%s
`

func structuredPrompt(text string) string {
	return fmt.Sprintf(structuredPromptTemplate, text)
}
